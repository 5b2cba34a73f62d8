// Package encode flattens parsed PASCAL-VOC annotations into the fixed
// feature schema the TensorFlow object detection pipeline trains on.
package encode

import (
	"errors"
	"fmt"
	"os"

	"github.com/menta2k/voc2tfrecord/internal/utils"
	"github.com/menta2k/voc2tfrecord/pkg/labelmap"
	"github.com/menta2k/voc2tfrecord/pkg/partition"
	"github.com/menta2k/voc2tfrecord/pkg/tfexample"
	"github.com/menta2k/voc2tfrecord/pkg/voc"
)

var (
	// ErrUnsupportedFormat means the image extension is not one of png/jpg/jpeg.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrUnknownLabel means an object label is missing from the label map.
	// With a fully built label map this should never happen, but it is
	// checked, not assumed.
	ErrUnknownLabel = errors.New("label missing from label map")
	// ErrInvalidSize means the annotation declares a non-positive image
	// width or height, so coordinates cannot be normalized.
	ErrInvalidSize = errors.New("invalid image size")
)

// Record is the flattened projection of one annotation. The five
// object-indexed lists always have equal length, one entry per object, and
// index i describes the same object across all five.
type Record struct {
	Height   int64
	Width    int64
	Filename string
	Encoded  []byte
	Format   string

	XMins      []float32
	XMaxs      []float32
	YMins      []float32
	YMaxs      []float32
	Classes    []int64
	ClassNames []string
}

// Encoder flattens annotations against a fixed, fully populated label map.
// The map must already contain every object label in the corpus (the
// mandatory first pass); Encode never mutates it.
type Encoder struct {
	labels *labelmap.LabelMap
}

// NewEncoder creates an Encoder reading from labels.
func NewEncoder(labels *labelmap.LabelMap) *Encoder {
	return &Encoder{labels: labels}
}

// imageFormat derives the record format string from the image filename
// extension, case-insensitively.
func imageFormat(filename string) (string, error) {
	ext := utils.GetFileExtension(filename)
	switch ext {
	case "png", "jpg", "jpeg":
		return ext, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Encode flattens one annotation: it reads the companion image bytes, maps
// every object label through the label map, and normalizes all bounding box
// coordinates into [0,1] against the image dimensions. Any failure drops the
// whole example; the caller decides whether that is fatal.
func (e *Encoder) Encode(ann *voc.Annotation) (*Record, error) {
	format, err := imageFormat(ann.Filename)
	if err != nil {
		return nil, err
	}

	if ann.Size.Width <= 0 || ann.Size.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, ann.Size.Width, ann.Size.Height)
	}

	img, err := os.ReadFile(ann.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	n := len(ann.Objects)
	rec := &Record{
		Height:     int64(ann.Size.Height),
		Width:      int64(ann.Size.Width),
		Filename:   ann.Filename,
		Encoded:    img,
		Format:     format,
		XMins:      make([]float32, 0, n),
		XMaxs:      make([]float32, 0, n),
		YMins:      make([]float32, 0, n),
		YMaxs:      make([]float32, 0, n),
		Classes:    make([]int64, 0, n),
		ClassNames: make([]string, 0, n),
	}

	width := float64(ann.Size.Width)
	height := float64(ann.Size.Height)
	for _, obj := range ann.Objects {
		id, ok := e.labels.Get(obj.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, obj.Name)
		}
		rec.XMins = append(rec.XMins, float32(partition.Normalize(float64(obj.BndBox.XMin), 0, width)))
		rec.XMaxs = append(rec.XMaxs, float32(partition.Normalize(float64(obj.BndBox.XMax), 0, width)))
		rec.YMins = append(rec.YMins, float32(partition.Normalize(float64(obj.BndBox.YMin), 0, height)))
		rec.YMaxs = append(rec.YMaxs, float32(partition.Normalize(float64(obj.BndBox.YMax), 0, height)))
		rec.Classes = append(rec.Classes, int64(id))
		rec.ClassNames = append(rec.ClassNames, obj.Name)
	}
	return rec, nil
}

// Example maps the record onto the fixed attribute table of the object
// detection consumer. The filename and source id attributes both carry the
// annotation's filename, by convention of the downstream schema.
func (r *Record) Example() tfexample.Example {
	names := make([][]byte, len(r.ClassNames))
	for i, n := range r.ClassNames {
		names[i] = []byte(n)
	}
	return tfexample.Example{
		"image/height":             tfexample.Int64(r.Height),
		"image/width":              tfexample.Int64(r.Width),
		"image/filename":           tfexample.Str(r.Filename),
		"image/source_id":          tfexample.Str(r.Filename),
		"image/encoded":            tfexample.Bytes(r.Encoded),
		"image/format":             tfexample.Str(r.Format),
		"image/object/bbox/xmin":   tfexample.FloatList(r.XMins),
		"image/object/bbox/xmax":   tfexample.FloatList(r.XMaxs),
		"image/object/bbox/ymin":   tfexample.FloatList(r.YMins),
		"image/object/bbox/ymax":   tfexample.FloatList(r.YMaxs),
		"image/object/class/label": tfexample.Int64List(r.Classes),
		"image/object/class/text":  tfexample.BytesList(names),
	}
}
