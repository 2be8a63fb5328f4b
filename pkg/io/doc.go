// Package io provides the configuration and record I/O of apidelta.
//
// Subpackages:
//   - configmanager: Configuration loading from file, environment, and flags
//   - records: JSON and YAML record decoding and encoding
//   - history: The remembered list of sent requests
//
// For low-level file I/O operations (reading, writing, path manipulation),
// see the fsutil package.
package io
