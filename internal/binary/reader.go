// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simonhull/tagstat/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
//
// Reads that would pass the end of the data fail with
// *types.UnexpectedEndOfDataError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if len(b) == 0 {
		return nil
	}

	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.UnexpectedEndOfDataError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return &types.UnexpectedEndOfDataError{
			Path:   sr.path,
			What:   what,
			Offset: off + int64(n),
			Length: len(b) - n,
			Size:   off + int64(n),
		}
	}

	return nil
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// Read reads a big-endian value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var zero T

	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(binary.BigEndian.Uint16(buf))
	case uint32:
		val = T(binary.BigEndian.Uint32(buf))
	case uint64:
		val = T(binary.BigEndian.Uint64(buf))
	}

	return val, nil
}

// Reader provides sequential reading with automatic offset tracking.
//
// A Reader may be limited to an end offset smaller than the underlying
// data; reads crossing the limit fail the same way as reads crossing the
// end of the data.
type Reader struct {
	*SafeReader
	offset int64
	end    int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
		end:        sr.size,
	}
}

// Limit restricts reads to offsets before end. An end past the underlying
// data is clamped to the data size.
func (r *Reader) Limit(end int64) {
	r.end = min(end, r.SafeReader.size)
}

func (r *Reader) check(n int, what string) error {
	if r.offset+int64(n) > r.end {
		return &types.UnexpectedEndOfDataError{
			Path:   r.path,
			What:   what,
			Offset: r.offset,
			Length: n,
			Size:   r.end,
		}
	}
	return nil
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	size := sizeOf[T]()
	if err := r.check(size, what); err != nil {
		var zero T
		return zero, err
	}

	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(size)
	return val, nil
}

// ReadBytes reads n bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	if err := r.check(n, what); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}

	r.offset += int64(n)
	return buf, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining returns the number of bytes left before the limit.
func (r *Reader) Remaining() int64 {
	return max(r.end-r.offset, 0)
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return val
}

// Synchsafe reads a synchsafe integer, accumulating any error.
func (cr *ChainReader) Synchsafe(what string) uint32 {
	if cr.err != nil {
		return 0
	}

	val, err := ReadSynchsafe(cr.Reader, what)
	if err != nil {
		cr.err = err
		return 0
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
