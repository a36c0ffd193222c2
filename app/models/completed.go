package models

import (
	"encoding/json"
	"sort"
)

// CompletedSet is an immutable set of completed task IDs. The zero value is an empty set.
type CompletedSet struct {
	ids map[string]struct{}
}

// NewCompletedSet creates a set holding the given IDs. Empty IDs are ignored.
func NewCompletedSet(ids ...string) CompletedSet {
	s := CompletedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is in the set.
func (s CompletedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s CompletedSet) Len() int {
	return len(s.ids)
}

// IDs returns the IDs in sorted order.
func (s CompletedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s CompletedSet) clone(extra int) CompletedSet {
	out := CompletedSet{ids: make(map[string]struct{}, len(s.ids)+extra)}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// With returns a new set that also contains id.
func (s CompletedSet) With(id string) CompletedSet {
	out := s.clone(1)
	if id != "" {
		out.ids[id] = struct{}{}
	}
	return out
}

// Without returns a new set that does not contain id.
func (s CompletedSet) Without(id string) CompletedSet {
	out := s.clone(0)
	delete(out.ids, id)
	return out
}

// Toggle returns a new set with id added if absent or removed if present.
func (s CompletedSet) Toggle(id string) CompletedSet {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

// Retain returns a new set holding only the IDs that are also in keep.
func (s CompletedSet) Retain(keep map[string]struct{}) CompletedSet {
	out := CompletedSet{ids: make(map[string]struct{}, len(s.ids))}
	for id := range s.ids {
		if _, ok := keep[id]; ok {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

func (s CompletedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *CompletedSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewCompletedSet(ids...)
	return nil
}
