package diff

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/structural"
)

// Merge overlays newObj onto a copy of oldObj. Where both sides hold an
// object the two are merged recursively; otherwise newObj's value replaces
// or inserts. Keys only oldObj has are kept.
func Merge(oldObj, newObj structural.Object) structural.Object {
	result := structural.CloneObject(oldObj)

	for key, newValue := range newObj {
		oldNested, oldIsObject := structural.AsObject(oldObj[key])
		newNested, newIsObject := structural.AsObject(newValue)

		if oldIsObject && newIsObject {
			result[key] = Merge(oldNested, newNested)

			continue
		}

		result[key] = structural.Clone(newValue)
	}

	return result
}

// MergeRecords merges patch into base and decodes the outcome into out.
// base and patch may be different record types; only their structural
// shape matters.
func MergeRecords(base, patch any, out any) error {
	baseObj, err := structural.Encode(base)
	if err != nil {
		return fmt.Errorf("encode base record: %w", err)
	}

	patchObj, err := structural.Encode(patch)
	if err != nil {
		return fmt.Errorf("encode patch record: %w", err)
	}

	err = structural.Decode(Merge(baseObj, patchObj), out)
	if err != nil {
		return fmt.Errorf("decode merged record: %w", err)
	}

	return nil
}
