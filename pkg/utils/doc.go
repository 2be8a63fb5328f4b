// Package utils provides utility packages for common operations.
//
// This package contains subpackages with utility functions used across
// the apidelta codebase:
//
//   - envvar: ${VAR} and ${VAR:-default} expansion in config values
//   - listutil: Bounded most-recent-first lists
//   - logger: Tagged logrus loggers and display hooks
//   - notify: Formatted message display with symbols, colors, and timing
//   - parallel: Bounded concurrent execution
//   - validation: Form value checks
package utils
