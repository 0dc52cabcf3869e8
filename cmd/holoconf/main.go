// Package main provides the CLI entry point for holoconf: load a
// configuration document, read a value out of it, validate it against a
// schema, or export it as fully-resolved YAML or JSON.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/holoconf"
	"go.jacobcolvin.com/holoconf/holoconfcli"
	"go.jacobcolvin.com/holoconf/log"
	"go.jacobcolvin.com/holoconf/profile"
	"go.jacobcolvin.com/holoconf/version"
)

const (
	exitOK        = 0
	exitLogical   = 1
	exitUsageOrIO = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "holoconf",
		Short:         "Read, validate, and export hierarchical configuration documents",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profileCfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := profileCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	var prof *profile.Profiler

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		handler, err := logCfg.NewHandler(os.Stderr)
		if err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}

		slog.SetDefault(slog.New(handler))

		prof = profileCfg.NewProfiler()

		return prof.Start()
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return prof.Stop()
	}

	rootCmd.AddCommand(
		newGetCmd(),
		newValidateCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		return exitCodeForError(err)
	}

	return exitOK
}

// exitCodeForError maps a returned error to the process exit code: a
// recognized holoconf logical failure (validation, missing path, resolver
// error, parse error) is 1; an I/O failure, or any error cobra itself
// raised (bad flags, wrong argument count), is the usage/I/O code 2.
func exitCodeForError(err error) int {
	var herr *holoconf.Error
	if errors.As(err, &herr) && herr.Kind != holoconf.ErrorKindIO {
		return exitLogical
	}

	if errors.Is(err, holoconf.ErrValidationFailed) || errors.Is(err, holoconf.ErrParse) {
		return exitLogical
	}

	return exitUsageOrIO
}

func newGetCmd() *cobra.Command {
	cliCfg := holoconfcli.NewConfig()

	cmd := &cobra.Command{
		Use:   "get <config-file> <path>",
		Short: "Resolve and print a single configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := cliCfg.Load(args[0])
			if err != nil {
				return err
			}

			v, err := doc.Get(args[1])
			if err != nil {
				return err
			}

			fmt.Println(v.Display())

			return nil
		},
	}

	cliCfg.RegisterFlags(cmd.Flags())

	if err := cliCfg.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func newValidateCmd() *cobra.Command {
	cliCfg := holoconfcli.NewConfig()

	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration document against a JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := cliCfg.Load(args[0])
			if err != nil {
				return err
			}

			violations, err := doc.ValidateCollect(nil)
			if err != nil {
				return err
			}

			if len(violations) == 0 {
				fmt.Println("valid")

				return nil
			}

			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "%s: %s\n", v.Path, v.Message)
			}

			return fmt.Errorf("%w: %d violation(s)", holoconf.ErrValidationFailed, len(violations))
		},
	}

	cliCfg.RegisterFlags(cmd.Flags())

	if err := cliCfg.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func newExportCmd() *cobra.Command {
	cliCfg := holoconfcli.NewConfig()

	var format string

	cmd := &cobra.Command{
		Use:   "export <config-file>",
		Short: "Resolve a configuration document and print it as YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := cliCfg.Load(args[0])
			if err != nil {
				return err
			}

			var out []byte

			switch format {
			case "json":
				out, err = doc.ToJSON(cliCfg.Redact)
			default:
				out, err = doc.ToYAML(cliCfg.Redact)
			}

			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(out)

			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format, one of: yaml, json")
	cliCfg.RegisterFlags(cmd.Flags())

	if err := cliCfg.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}
