// Package holoconfcli adapts [holoconf.ConfigOptions] and document loading
// into the CLI-flag pattern used across this module's commands (see
// package log and package profile): a Flags struct naming flags, a Config
// struct holding the bound values, RegisterFlags/RegisterCompletions to
// wire a cobra command, and a constructor that turns the bound values into
// a ready-to-use [holoconf.Document].
package holoconfcli
