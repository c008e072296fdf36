// SPDX-License-Identifier: MIT

package table

import "slices"

// Entry is one metadata keyword.
type Entry struct {
	Key   string
	Value string
}

// Meta is an insertion-ordered string map. The zero value is ready to use.
type Meta struct {
	entries []Entry
}

// NewMeta builds a Meta from entries; later duplicates overwrite earlier values in place.
func NewMeta(entries ...Entry) *Meta {
	m := &Meta{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

func (m *Meta) index(key string) int {
	return slices.IndexFunc(m.entries, func(e Entry) bool { return e.Key == key })
}

// Set assigns key, keeping its original position if it already exists.
func (m *Meta) Set(key, value string) {
	if k := m.index(key); k >= 0 {
		m.entries[k].Value = value
		return
	}
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key and whether it exists.
func (m *Meta) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	if k := m.index(key); k >= 0 {
		return m.entries[k].Value, true
	}

	return "", false
}

// Has reports whether key exists.
func (m *Meta) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key if present.
func (m *Meta) Delete(key string) {
	if k := m.index(key); k >= 0 {
		m.entries = slices.Delete(m.entries, k, k+1)
	}
}

// Len returns the number of keys.
func (m *Meta) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Meta) Entries() []Entry {
	if m == nil {
		return nil
	}

	return slices.Clone(m.entries)
}

// Clone returns an independent copy.
func (m *Meta) Clone() *Meta {
	return &Meta{entries: m.Entries()}
}

// Merge copies every entry of o into m (o wins on conflicts).
func (m *Meta) Merge(o *Meta) {
	for _, e := range o.Entries() {
		m.Set(e.Key, e.Value)
	}
}
