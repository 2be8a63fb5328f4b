// Package cli groups the command-line surface of apidelta.
//
// This package is organized into subpackages for different functionality:
//
//   - cli/cmd: Cobra commands (diff, merge, send, batch, validate, config, history)
//   - cli/flags: Persistent flag names and timing detection
//   - cli/ui: Terminal detection, send confirmation, and error handling with exit codes
//
// Commands resolve their services through the di runtime so tests can run
// them against temporary config files and fake services.
package cli
