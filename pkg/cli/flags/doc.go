// Package flags provides flag handling utilities for CLI commands.
//
// This package holds the names of flags shared across commands, registers
// the persistent flags that feed configuration, and detects whether
// benchmark output was requested.
package flags
