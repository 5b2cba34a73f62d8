// Package prepare orchestrates the dataset preparation pipeline: discover and
// parse annotations, build and persist the label map, split the corpus into
// train and test partitions, and write one TFRecord file per non-empty
// partition.
package prepare

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/menta2k/voc2tfrecord/internal/utils"
	"github.com/menta2k/voc2tfrecord/pkg/encode"
	"github.com/menta2k/voc2tfrecord/pkg/labelmap"
	"github.com/menta2k/voc2tfrecord/pkg/partition"
	"github.com/menta2k/voc2tfrecord/pkg/tfrecord"
	"github.com/menta2k/voc2tfrecord/pkg/voc"
)

// LabelMapFile is the name of the persisted label map inside the output
// directory.
const LabelMapFile = "label_map.txt"

// Options configures one preparation run.
type Options struct {
	// Input directory, searched recursively for annotation files.
	Input string
	// Output directory for the label map and record files. Created if absent.
	Output string
	// TestRatio is the integer percentage of data placed in the test set.
	TestRatio int
	// Compress gzip-compresses the record files.
	Compress bool
	// Logger receives warnings about dropped examples and empty partitions.
	// Defaults to a text logger on stderr.
	Logger *slog.Logger
}

// Run executes the pipeline. Per-example failures (unparsable annotations,
// unreadable or unsupported images, unknown labels) are recorded in the
// Report and never abort the run; stage failures (output directory, label
// map, record files) abort with their cause.
func Run(opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if err := utils.EnsureDir(opts.Output); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	report := &Report{}

	paths, err := utils.ListAnnotationFiles(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	annotations := make([]*voc.Annotation, 0, len(paths))
	for _, path := range paths {
		ann, err := voc.ParseFile(path)
		if err != nil {
			report.Failures = append(report.Failures, ParseFailure{Path: path, Err: err})
			continue
		}
		annotations = append(annotations, ann)
		report.Valid++
	}

	// Pass one: the label map must cover the whole corpus before any single
	// example is encoded.
	labels := labelmap.New()
	for _, ann := range annotations {
		for _, obj := range ann.Objects {
			labels.Add(obj.Name)
		}
	}
	report.Labels = labels.Len()

	labelPath := filepath.Join(opts.Output, LabelMapFile)
	if err := labels.WriteFile(labelPath); err != nil {
		return nil, fmt.Errorf("failed to persist label map: %w", err)
	}
	report.Files = append(report.Files, labelPath)

	// Items whose image checksum lands at or above the ratio cutoff go right,
	// into the test set. The split is keyed on image bytes, not annotation
	// XML, so relabeling never moves an example across partitions.
	train, test := partition.Split(annotations, opts.TestRatio, func(a *voc.Annotation) ([]byte, error) {
		return os.ReadFile(a.ImagePath)
	})

	encoder := encode.NewEncoder(labels)
	for _, part := range []struct {
		name        string
		annotations []*voc.Annotation
	}{
		{"test", test},
		{"train", train},
	} {
		if err := writePartition(encoder, part.name, part.annotations, opts, report, log); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// writePartition encodes one partition's members in discovery order and
// writes them as a single record file. An empty partition is skipped with a
// warning, not an error.
func writePartition(encoder *encode.Encoder, name string, annotations []*voc.Annotation, opts Options, report *Report, log *slog.Logger) error {
	if len(annotations) == 0 {
		log.Warn("partition is empty, record file won't be generated", "partition", name)
		return nil
	}

	builder := tfrecord.NewBuilder()
	for _, ann := range annotations {
		rec, err := encoder.Encode(ann)
		if err != nil {
			report.Ignored++
			log.Warn("example dropped", "partition", name, "filename", ann.Filename, "error", err)
			continue
		}
		builder.Add(rec.Example().Marshal())
	}

	if builder.Len() == 0 {
		log.Warn("partition has no encodable examples, record file won't be generated", "partition", name)
		return nil
	}

	filename := name + ".tfrecord"
	if opts.Compress {
		filename += ".gz"
	}
	path := filepath.Join(opts.Output, filename)
	if err := builder.WriteFile(path, opts.Compress); err != nil {
		return fmt.Errorf("failed to write %s partition: %w", name, err)
	}
	report.Files = append(report.Files, path)
	return nil
}
