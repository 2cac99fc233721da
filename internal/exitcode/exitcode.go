// Package exitcode defines exit codes for the gtaskbot binary.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UsageError indicates unknown arguments or subcommands.
	UsageError = 1

	// ConfigError indicates missing or invalid configuration.
	ConfigError = 2

	// BackendError indicates a Telegram, Google Tasks or listener failure.
	BackendError = 3
)
