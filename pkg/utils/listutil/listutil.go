// Package listutil holds small generic slice helpers.
package listutil

// DefaultLimit is the list length WithLimit callers use when they have no
// better bound.
const DefaultLimit = 20

// WithLimit returns a new slice with item first, followed by the entries of
// list that isDuplicate rejects, truncated to limit entries. list is not
// modified. A limit below one yields just item.
func WithLimit[T any](list []T, item T, limit int, isDuplicate func(T) bool) []T {
	limit = max(limit, 1)

	result := make([]T, 0, min(len(list)+1, limit))
	result = append(result, item)

	for _, entry := range list {
		if len(result) == limit {
			break
		}

		if isDuplicate != nil && isDuplicate(entry) {
			continue
		}

		result = append(result, entry)
	}

	return result
}
