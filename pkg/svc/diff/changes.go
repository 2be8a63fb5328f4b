package diff

import (
	"slices"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/structural"
)

// ChangeKind classifies a single field change.
type ChangeKind string

const (
	// ChangeAdded marks a field the old record did not have.
	ChangeAdded ChangeKind = "added"
	// ChangeModified marks a field whose value differs between the records.
	ChangeModified ChangeKind = "modified"
)

// Change describes one leaf-level difference, addressed by a dotted path.
type Change struct {
	Field    string           `json:"field"`
	Kind     ChangeKind       `json:"kind"`
	OldValue structural.Value `json:"old,omitempty"`
	NewValue structural.Value `json:"new"`
}

// Changes flattens the delta between two objects into leaf-level changes,
// sorted by field path. Excluded fields never appear, since their value is
// always carried over from the old record.
func Changes(oldObj, newObj structural.Object, exclude ExcludeSet) []Change {
	changes := collectChanges(nil, oldObj, Diff(oldObj, newObj, exclude), exclude)

	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Field, b.Field)
	})

	return changes
}

func collectChanges(prefix []string, oldObj, delta structural.Object, exclude ExcludeSet) []Change {
	var changes []Change

	for key, newValue := range delta {
		if exclude.Contains(key) {
			continue
		}

		path := append(slices.Clone(prefix), key)
		oldValue, inOld := oldObj[key]

		oldNested, oldIsObject := structural.AsObject(oldValue)
		nested, newIsObject := structural.AsObject(newValue)

		if inOld && oldIsObject && newIsObject {
			changes = append(changes, collectChanges(path, oldNested, nested, exclude)...)

			continue
		}

		change := Change{
			Field:    strings.Join(path, "."),
			Kind:     ChangeModified,
			NewValue: newValue,
		}

		if inOld {
			change.OldValue = oldValue
		} else {
			change.Kind = ChangeAdded
		}

		changes = append(changes, change)
	}

	return changes
}
