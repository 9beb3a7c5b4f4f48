package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// config validation messages.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Output.Format, flags.FlagFormat, "", "...")
//	arg := "--" + flags.FlagFormat
const (
	// Notes
	FlagConfig       = "config"
	FlagDraftRelease = "draft-release"

	// Output
	FlagFormat = "format"
	FlagOut    = "out"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagVerbose     = "verbose"
)
