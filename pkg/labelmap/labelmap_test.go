package labelmap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsStableIDs(t *testing.T) {
	m := New()

	assert.Equal(t, int32(1), m.Add("dog"))
	assert.Equal(t, int32(2), m.Add("cat"))
	assert.Equal(t, int32(3), m.Add("hotdog"))
	assert.Equal(t, 3, m.Len())

	// Repeated adds return the original id and assign nothing new.
	assert.Equal(t, int32(1), m.Add("dog"))
	assert.Equal(t, int32(1), m.Add("dog"))
	assert.Equal(t, int32(2), m.Add("cat"))
	assert.Equal(t, 3, m.Len())

	assert.Equal(t, int32(4), m.Add("bird"))
}

func TestGet(t *testing.T) {
	m := New()
	m.Add("dog")

	id, ok := m.Get("dog")
	assert.True(t, ok)
	assert.Equal(t, int32(1), id)

	_, ok = m.Get("cat")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len(), "Get must not assign ids")
}

func TestLabelsFirstSeenOrder(t *testing.T) {
	m := New()
	for _, l := range []string{"dog", "cat", "dog", "bird", "cat"} {
		m.Add(l)
	}
	assert.Equal(t, []string{"dog", "cat", "bird"}, m.Labels())
}

func TestWriteTo(t *testing.T) {
	m := New()
	m.Add("dog")
	m.Add("cat")

	var sb strings.Builder
	n, err := m.WriteTo(&sb)
	require.NoError(t, err)

	want := "item {\n  name: \"dog\"\n  id: 1\n}\nitem {\n  name: \"cat\"\n  id: 2\n}\n"
	assert.Equal(t, want, sb.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.Add("hotdog")

	path := filepath.Join(t.TempDir(), "label_map.txt")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "item {\n  name: \"hotdog\"\n  id: 1\n}\n", string(data))
}

func TestWriteFileEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label_map.txt")
	require.NoError(t, New().WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
