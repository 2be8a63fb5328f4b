// Package notify writes formatted, colored messages for CLI users.
//
// [WriteMessage] renders a typed message (success ✔, error ✗, warning ⚠,
// info ℹ, activity ►, or a title with an emoji). [WriteResult] renders the
// outcome of a request. [SectionWriter] puts a blank line between titled
// sections of output.
package notify
