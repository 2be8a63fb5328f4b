package diff

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/devantler-tech/apidelta/pkg/utils/logger"
	"github.com/sirupsen/logrus"
)

// ExcludeSet names fields whose old value must survive a diff regardless of
// what the new record holds, such as server-assigned identifiers.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds an ExcludeSet from field names.
func NewExcludeSet(keys ...string) ExcludeSet {
	set := make(ExcludeSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}

	return set
}

// Contains reports whether key is excluded. It is safe on a nil set.
func (s ExcludeSet) Contains(key string) bool {
	_, ok := s[key]

	return ok
}

// Diff returns the keys of newObj that differ from oldObj.
//
// For every key of newObj:
//   - excluded keys carry oldObj's value when oldObj has one, without recursion;
//   - keys missing from oldObj are copied from newObj;
//   - deep-equal values are omitted;
//   - two objects are diffed recursively with the same exclusions and kept
//     even when the nested delta is empty;
//   - anything else is copied from newObj.
//
// The result is never nil and shares no mutable state with the inputs.
func Diff(oldObj, newObj structural.Object, exclude ExcludeSet) structural.Object {
	result := structural.Object{}

	for key, newValue := range newObj {
		oldValue, inOld := oldObj[key]

		if exclude.Contains(key) {
			if inOld {
				result[key] = structural.Clone(oldValue)
			}

			continue
		}

		switch {
		case !inOld:
			result[key] = structural.Clone(newValue)
		case structural.Equal(oldValue, newValue):
			// unchanged
		default:
			oldNested, oldIsObject := structural.AsObject(oldValue)
			newNested, newIsObject := structural.AsObject(newValue)

			if oldIsObject && newIsObject {
				result[key] = Diff(oldNested, newNested, exclude)
			} else {
				result[key] = structural.Clone(newValue)
			}
		}
	}

	return result
}

// Engine computes and applies deltas with a fixed exclusion set.
type Engine struct {
	exclude ExcludeSet
	log     *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithExclude adds fields to the engine's exclusion set.
func WithExclude(keys ...string) Option {
	return func(e *Engine) {
		for _, key := range keys {
			e.exclude[key] = struct{}{}
		}
	}
}

// WithLogger sets the entry used for debug output.
func WithLogger(entry *logrus.Entry) Option {
	return func(e *Engine) {
		if entry != nil {
			e.log = entry
		}
	}
}

// NewEngine creates a diff engine.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		exclude: ExcludeSet{},
		log:     logger.Tagged(nil, logger.TagJSON),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Extend returns a copy of the engine with opts applied on top of its
// current settings. The receiver is left unchanged.
func (e *Engine) Extend(opts ...Option) *Engine {
	extended := &Engine{
		exclude: e.Exclude(),
		log:     e.log,
	}

	for _, opt := range opts {
		opt(extended)
	}

	return extended
}

// Exclude returns a copy of the engine's exclusion set.
func (e *Engine) Exclude() ExcludeSet {
	out := make(ExcludeSet, len(e.exclude))
	for key := range e.exclude {
		out[key] = struct{}{}
	}

	return out
}

// ComputeDiff diffs two objects with the engine's exclusions.
func (e *Engine) ComputeDiff(oldObj, newObj structural.Object) structural.Object {
	delta := Diff(oldObj, newObj, e.exclude)

	e.log.WithFields(logrus.Fields{
		"old_keys":   len(oldObj),
		"new_keys":   len(newObj),
		"delta_keys": len(delta),
	}).Debug("computed delta")

	return delta
}

// Merge applies delta to base.
func (e *Engine) Merge(base, delta structural.Object) structural.Object {
	merged := Merge(base, delta)

	e.log.WithField("delta_keys", len(delta)).Debug("merged delta")

	return merged
}

// Changes lists the changes between two objects with the engine's exclusions.
func (e *Engine) Changes(oldObj, newObj structural.Object) []Change {
	return Changes(oldObj, newObj, e.exclude)
}

// DiffRecords encodes both records and diffs them with the engine's exclusions.
func (e *Engine) DiffRecords(oldRecord, newRecord any) (structural.Object, bool, error) {
	return DiffRecords(oldRecord, newRecord, e.exclude)
}

// DiffRecords encodes two records and returns their delta. The boolean is
// false when the records are deep-equal, in which case the delta is empty and
// callers can skip sending an update.
func DiffRecords(oldRecord, newRecord any, exclude ExcludeSet) (structural.Object, bool, error) {
	oldObj, err := structural.Encode(oldRecord)
	if err != nil {
		return nil, false, fmt.Errorf("encode old record: %w", err)
	}

	newObj, err := structural.Encode(newRecord)
	if err != nil {
		return nil, false, fmt.Errorf("encode new record: %w", err)
	}

	if structural.Equal(oldObj, newObj) {
		return structural.Object{}, false, nil
	}

	return Diff(oldObj, newObj, exclude), true, nil
}
