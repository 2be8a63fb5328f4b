// Package cmd provides the command-line interface for apidelta.
//
// This package contains the root command and its subcommands:
//   - diff, merge: compute and apply record deltas
//   - send, batch: run requests through the typed pipeline
//   - validate: check form values
//   - config: inspect configuration and its schema
//   - history: list recently sent requests
package cmd
