package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/simonhull/tagstat/internal/types"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 0, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"offset past end", 10, 2},
		{"read crosses end", 3, 2},
		{"negative offset", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.n), tt.off, "frame header")
			var eod *types.UnexpectedEndOfDataError
			if !errors.As(err, &eod) {
				t.Fatalf("expected *UnexpectedEndOfDataError, got %T: %v", err, err)
			}

			msg := err.Error()
			if !strings.Contains(msg, "test.mp3") {
				t.Errorf("error should contain filename: %v", msg)
			}
			if !strings.Contains(msg, "frame header") {
				t.Errorf("error should contain context: %v", msg)
			}
		})
	}
}

func TestSafeReader_ShortUnderlyingRead(t *testing.T) {
	// Declared size larger than the actual data.
	sr := NewSafeReader(&mockReader{data: []byte{1, 2}}, 8, "short.mp3")

	err := sr.ReadAt(make([]byte, 4), 0, "payload")
	var eod *types.UnexpectedEndOfDataError
	if !errors.As(err, &eod) {
		t.Fatalf("expected *UnexpectedEndOfDataError, got %T: %v", err, err)
	}
}

func TestRead_BigEndian(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, 0x123456789ABCDEF0)
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	v8, err := Read[uint8](sr, 0, "uint8")
	if err != nil || v8 != 0x12 {
		t.Errorf("uint8: got 0x%02x, %v", v8, err)
	}

	v16, err := Read[uint16](sr, 0, "uint16")
	if err != nil || v16 != 0x1234 {
		t.Errorf("uint16: got 0x%04x, %v", v16, err)
	}

	v32, err := Read[uint32](sr, 0, "uint32")
	if err != nil || v32 != 0x12345678 {
		t.Errorf("uint32: got 0x%08x, %v", v32, err)
	}

	v64, err := Read[uint64](sr, 0, "uint64")
	if err != nil || v64 != 0x123456789ABCDEF0 {
		t.Errorf("uint64: got 0x%016x, %v", v64, err)
	}
}

func TestReader_Sequential(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")
	r := NewReader(sr, 0)

	val1, err := ReadValue[uint8](r, "first byte")
	if err != nil {
		t.Fatalf("read 1 failed: %v", err)
	}
	if val1 != 0x01 {
		t.Errorf("expected 0x01, got 0x%02x", val1)
	}

	val2, err := ReadValue[uint16](r, "second word")
	if err != nil {
		t.Fatalf("read 2 failed: %v", err)
	}
	if val2 != 0x0203 {
		t.Errorf("expected 0x0203, got 0x%04x", val2)
	}

	if r.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", r.Offset())
	}
	if r.Remaining() != 5 {
		t.Errorf("expected 5 remaining, got %d", r.Remaining())
	}
}

func TestReader_Limit(t *testing.T) {
	data := []byte("ID3\x04\x00\x00TIT2abcdef")
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "limit.mp3")
	r := NewReader(sr, 6)
	r.Limit(10)

	id, err := r.ReadString(4, "frame id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "TIT2" {
		t.Errorf("expected TIT2, got %q", id)
	}

	_, err = r.ReadBytes(1, "past limit")
	var eod *types.UnexpectedEndOfDataError
	if !errors.As(err, &eod) {
		t.Fatalf("expected *UnexpectedEndOfDataError, got %T: %v", err, err)
	}
	if eod.Size != 10 {
		t.Errorf("expected limit 10 in error, got %d", eod.Size)
	}
	if r.Offset() != 10 {
		t.Errorf("failed read must not advance, offset %d", r.Offset())
	}
}

func TestReader_LimitClampedToData(t *testing.T) {
	data := []byte{1, 2, 3}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "clamp.mp3")
	r := NewReader(sr, 0)
	r.Limit(100)

	if r.Remaining() != 3 {
		t.Errorf("expected 3 remaining, got %d", r.Remaining())
	}
}

func TestReader_Skip(t *testing.T) {
	data := make([]byte, 100)
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")
	r := NewReader(sr, 10)

	r.Skip(20)
	if r.Offset() != 30 {
		t.Errorf("expected offset 30 after skip, got %d", r.Offset())
	}

	r.Skip(100)
	if r.Remaining() != 0 {
		t.Errorf("remaining should not go negative, got %d", r.Remaining())
	}
}

func TestChainReader_Success(t *testing.T) {
	data := []byte{'T', 'A', 'L', 'B', 0x00, 0x00, 0x01, 0x00, 0x00, 0x01}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")
	cr := NewChainReader(NewReader(sr, 0))

	id := cr.Bytes(4, "id")
	size := cr.Synchsafe("size")
	flags := ReadChained[uint16](cr, "flags")

	if err := cr.Error(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(id) != "TALB" || size != 128 || flags != 1 {
		t.Errorf("unexpected values: %q %d %d", id, size, flags)
	}
}

func TestChainReader_ErrorAccumulation(t *testing.T) {
	data := []byte{0x01, 0x02}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")
	cr := NewChainReader(NewReader(sr, 0))

	_ = ReadChained[uint8](cr, "first")
	_ = ReadChained[uint8](cr, "second")
	_ = ReadChained[uint8](cr, "third") // out of bounds

	first := cr.Error()
	if first == nil {
		t.Fatal("expected error, got nil")
	}

	// Once an error occurs, subsequent reads are skipped.
	if v := cr.Bytes(1, "fourth"); v != nil {
		t.Errorf("expected nil after error, got %v", v)
	}
	if cr.Error() != first {
		t.Fatal("first error should persist")
	}
}

func BenchmarkRead_Uint32(b *testing.B) {
	data := make([]byte, 1024*1024) // 1MB
	for i := 0; i < len(data); i += 4 {
		binary.BigEndian.PutUint32(data[i:], uint32(i))
	}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "bench.mp3")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		offset := int64((i % (len(data) / 4)) * 4)
		_, _ = Read[uint32](sr, offset, "benchmark")
	}
}
