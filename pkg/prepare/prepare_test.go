package prepare

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeExample writes one annotation/image pair into dir. The image content
// is what the partitioner hashes, so tests pick it deliberately.
func writeExample(t *testing.T, dir, stem, imageExt string, imageContent []byte, labels ...string) {
	t.Helper()

	objects := ""
	for _, label := range labels {
		objects += fmt.Sprintf(`<object>
	<name>%s</name>
	<pose>Unspecified</pose>
	<truncated>0</truncated>
	<difficult>0</difficult>
	<bndbox><xmin>10</xmin><ymin>20</ymin><xmax>100</xmax><ymax>200</ymax></bndbox>
</object>`, label)
	}

	xml := fmt.Sprintf(`<annotation>
	<folder>dataset</folder>
	<filename>%s.%s</filename>
	<path>/somewhere/else/%s.%s</path>
	<source><database>Unknown</database></source>
	<size><width>480</width><height>360</height><depth>3</depth></size>
	<segmented>0</segmented>
	%s
</annotation>`, stem, imageExt, stem, imageExt, objects)

	require.NoError(t, os.WriteFile(filepath.Join(dir, stem+".xml"), []byte(xml), 0o644))
	if imageContent != nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, stem+"."+imageExt), imageContent, 0o644))
	}
}

func TestRunEmptyInput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	report, err := Run(Options{Input: in, Output: out, TestRatio: 20})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Valid)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 0, report.Labels)

	// The output directory and an empty label map still get created.
	data, err := os.ReadFile(filepath.Join(out, LabelMapFile))
	require.NoError(t, err)
	assert.Empty(t, data)

	// No record files.
	assert.NoFileExists(t, filepath.Join(out, "train.tfrecord"))
	assert.NoFileExists(t, filepath.Join(out, "test.tfrecord"))
	assert.Equal(t, []string{filepath.Join(out, LabelMapFile)}, report.Files)
}

func TestRunRecordsParseFailures(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	writeExample(t, in, "good", "jpg", []byte("image bytes"), "dog")
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.xml"), []byte("<annotation><broken"), 0o644))

	report, err := Run(Options{Input: in, Output: out, TestRatio: 20})
	require.NoError(t, err, "parse failures must not abort the run")

	assert.Equal(t, 1, report.Valid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, filepath.Join(in, "bad.xml"), report.Failures[0].Path)
	assert.Error(t, report.Failures[0].Err)
	assert.Equal(t, 2, report.Total())
}

func TestRunCountsDroppedExamples(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	// Unsupported image extension: parsed fine, dropped at encode time.
	writeExample(t, in, "animated", "gif", []byte("gif bytes"), "dog")
	// Missing companion image: dropped at encode time as well.
	writeExample(t, in, "orphan", "jpg", nil, "cat")

	// Declared zero dimensions: coordinates cannot be normalized, so the
	// example is dropped at encode time too.
	zeroSize := `<annotation>
	<filename>flat.jpg</filename>
	<size><width>0</width><height>0</height><depth>3</depth></size>
	<object><name>dog</name><bndbox><xmin>1</xmin><ymin>1</ymin><xmax>2</xmax><ymax>2</ymax></bndbox></object>
</annotation>`
	require.NoError(t, os.WriteFile(filepath.Join(in, "flat.xml"), []byte(zeroSize), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "flat.jpg"), []byte("flat bytes"), 0o644))

	report, err := Run(Options{Input: in, Output: out, TestRatio: 20})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Valid)
	assert.Equal(t, 3, report.Ignored)
	assert.Equal(t, 2, report.Labels, "dropped examples still contribute labels")

	// Both partitions ended up without encodable members.
	assert.NoFileExists(t, filepath.Join(out, "train.tfrecord"))
	assert.NoFileExists(t, filepath.Join(out, "test.tfrecord"))
}

func TestRunLabelMapCoversAllAnnotations(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	writeExample(t, in, "1", "jpg", []byte("a"), "dog")
	writeExample(t, in, "2", "jpg", []byte("b"), "cat", "dog")
	writeExample(t, in, "3", "jpg", []byte("c"), "hotdog")

	report, err := Run(Options{Input: in, Output: out, TestRatio: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Labels)

	data, err := os.ReadFile(filepath.Join(out, LabelMapFile))
	require.NoError(t, err)
	want := "item {\n  name: \"dog\"\n  id: 1\n}\nitem {\n  name: \"cat\"\n  id: 2\n}\nitem {\n  name: \"hotdog\"\n  id: 3\n}\n"
	assert.Equal(t, want, string(data))
}

func TestReportString(t *testing.T) {
	r := &Report{
		Valid:   4,
		Ignored: 1,
		Files:   []string{"out/label_map.txt", "out/train.tfrecord"},
		Failures: []ParseFailure{
			{Path: "in/bad.xml", Err: fmt.Errorf("boom")},
		},
	}

	s := r.String()
	assert.Contains(t, s, "2 file(s) were written")
	assert.Contains(t, s, "found 5 example(s)")
	assert.Contains(t, s, "1 example(s) were ignored")
	assert.Contains(t, s, "in/bad.xml")
	assert.Contains(t, s, "boom")
}
