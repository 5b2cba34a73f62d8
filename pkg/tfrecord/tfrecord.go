// Package tfrecord reads and writes the TFRecord framing format: each record
// is a length-delimited, checksum-protected frame, and frames are simply
// concatenated with no separator, footer or index.
//
// Frame layout:
//
//	[8 bytes]  payload length, unsigned 64-bit, little-endian
//	[4 bytes]  masked CRC-32C of the 8 length bytes, little-endian
//	[payload]
//	[4 bytes]  masked CRC-32C of the payload bytes, little-endian
//
// The checksums use the Castagnoli CRC-32C polynomial. This is not the IEEE
// CRC-32 used by pkg/partition; the two must never be swapped.
package tfrecord

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	lengthSize = 8
	crcSize    = 4

	maskDelta = 0xa282ead8
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var (
	// ErrInvalidChecksum means a frame's length or payload failed its CRC check.
	ErrInvalidChecksum = errors.New("tfrecord: invalid checksum")
	// ErrShortRead means the stream ended in the middle of a frame.
	ErrShortRead = errors.New("tfrecord: truncated record")
)

// maskedCRC computes the masked Castagnoli CRC-32C over data:
// masked = ((crc >> 15) | (crc << 17)) + 0xa282ead8 (mod 2^32).
func maskedCRC(data []byte) uint32 {
	c := crc32.Checksum(data, castagnoli)
	return ((c >> 15) | (c << 17)) + maskDelta
}

// Writer frames serialized records into a TFRecord stream.
type Writer struct {
	w      io.Writer
	header [lengthSize + crcSize]byte
	footer [crcSize]byte
}

// NewWriter creates a Writer emitting frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord frames one payload and writes it out.
func (w *Writer) WriteRecord(payload []byte) error {
	binary.LittleEndian.PutUint64(w.header[:lengthSize], uint64(len(payload)))
	binary.LittleEndian.PutUint32(w.header[lengthSize:], maskedCRC(w.header[:lengthSize]))
	if _, err := w.w.Write(w.header[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(w.footer[:], maskedCRC(payload))
	_, err := w.w.Write(w.footer[:])
	return err
}

// Reader reads frames back from a TFRecord stream, verifying both checksums.
type Reader struct {
	r io.Reader
}

// NewReader creates a Reader consuming frames from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the payload of the next frame, or io.EOF at the end of the
// stream. The length checksum is verified before the length is trusted.
func (r *Reader) Next() ([]byte, error) {
	var header [lengthSize + crcSize]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortRead
		}
		return nil, err
	}
	if binary.LittleEndian.Uint32(header[lengthSize:]) != maskedCRC(header[:lengthSize]) {
		return nil, fmt.Errorf("%w: frame length", ErrInvalidChecksum)
	}

	payload := make([]byte, binary.LittleEndian.Uint64(header[:lengthSize]))
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortRead
		}
		return nil, err
	}

	var footer [crcSize]byte
	if _, err := io.ReadFull(r.r, footer[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortRead
		}
		return nil, err
	}
	if binary.LittleEndian.Uint32(footer[:]) != maskedCRC(payload) {
		return nil, fmt.Errorf("%w: frame payload", ErrInvalidChecksum)
	}
	return payload, nil
}
