// Package labelmap maintains the stable mapping from object label strings to
// the integer class ids used in the emitted records and in the label_map.txt
// file consumed by the TensorFlow object detection pipeline.
package labelmap

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// LabelMap assigns integer ids to labels in first-seen order, starting at 1.
// Once assigned, a label's id never changes for the lifetime of the map.
type LabelMap struct {
	next  int32
	ids   map[string]int32
	names []string // first-seen order
}

// New creates an empty label map.
func New() *LabelMap {
	return &LabelMap{
		next: 1,
		ids:  make(map[string]int32),
	}
}

// Add returns the id for label, assigning the next free id if the label has
// not been seen before. It's safe to call this repeatedly with the same label.
func (m *LabelMap) Add(label string) int32 {
	if id, ok := m.ids[label]; ok {
		return id
	}
	id := m.next
	m.next++
	m.ids[label] = id
	m.names = append(m.names, label)
	return id
}

// Get returns the id for a label, without assigning one.
func (m *LabelMap) Get(label string) (int32, bool) {
	id, ok := m.ids[label]
	return id, ok
}

// Len returns the number of distinct labels.
func (m *LabelMap) Len() int {
	return len(m.names)
}

// Labels returns the labels in first-seen order.
func (m *LabelMap) Labels() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// WriteTo writes the map in the protobuf text form expected by the object
// detection label map consumer, one item block per label in first-seen order:
//
//	item {
//	  name: "dog"
//	  id: 1
//	}
func (m *LabelMap) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, name := range m.names {
		n, err := fmt.Fprintf(w, "item {\n  name: %s\n  id: %d\n}\n", strconv.Quote(name), m.ids[name])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile persists the map to path. The file is write-only output; the map
// is never read back from it.
func (m *LabelMap) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create label map file: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write label map: %w", err)
	}
	return f.Close()
}
