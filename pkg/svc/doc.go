// Package svc provides service layer components for apidelta.
//
// Subpackages:
//   - diff: Structural diff and merge of JSON records, with field exclusions
package svc
