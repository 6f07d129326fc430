// Package commands defines the devnode root command.
//
// Flags fall back to DEVNODE_* environment variables; LOG_LEVEL and
// SYSLOG_ENDPOINT configure the logger as they do for the pocket CLI.
package commands
