// Package fsutil provides utilities for filesystem operations.
//
// Key functionality:
//   - Input reading: ReadInput (files or stdin)
//   - File writing: WriteFile
//   - Path operations: ExpandHomePath
package fsutil
