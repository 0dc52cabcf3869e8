// Package holoconf implements the document façade: the primary type
// consumers interact with. It owns a raw value tree, a snapshot of the
// resolver registry taken at construction, a resolution cache, a source
// map, load options, and an optional attached schema, and ties the
// lower-level value/interp/resolver/schema packages together into lazy,
// cached, schema-aware configuration access.
//
//	cfg, err := holoconf.Load("config.yaml")
//	host, err := cfg.GetString("database.host")
//	yaml, err := cfg.ToYAML(true) // resolved, redacted
package holoconf
