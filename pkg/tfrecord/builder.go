package tfrecord

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Builder accumulates serialized examples for one output partition and writes
// them out as a single TFRecord file. The buffer is unbounded; size-bounded
// rollover into multiple files is not implemented.
type Builder struct {
	payloads [][]byte
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends one serialized record to the buffer.
func (b *Builder) Add(payload []byte) {
	b.payloads = append(b.payloads, payload)
}

// Len returns the number of buffered records.
func (b *Builder) Len() int {
	return len(b.payloads)
}

// WriteTo frames all buffered records into w, in the order they were added.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	tw := NewWriter(w)
	var total int64
	for _, p := range b.payloads {
		if err := tw.WriteRecord(p); err != nil {
			return total, err
		}
		total += int64(lengthSize + crcSize + len(p) + crcSize)
	}
	return total, nil
}

// WriteFile writes all buffered records to path. With compress set, the
// stream is gzip-compressed; TFRecord consumers accept gzip-compressed files.
func (b *Builder) WriteFile(path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if _, err := b.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to flush record file: %w", err)
		}
	}
	return f.Close()
}
