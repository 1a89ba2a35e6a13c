// Package config loads server, model, activity storage and auth settings
// from config.yaml and MONITIZE_* environment variables, then validates them
// before anything is wired. The CLIs load only the section they need.
package config
