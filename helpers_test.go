package tagstat

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// audioBytes stands in for an MPEG audio payload.
var audioBytes = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0xA5, 0x00, 0xFF}, 64)...)

// frameBytes builds a frame as stored on disk for the given major version.
func frameBytes(major byte, id string, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString(id)
	size := uint32(len(data))
	if major == 4 {
		b.Write([]byte{byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F)})
	} else {
		_ = binary.Write(&b, binary.BigEndian, size)
	}
	b.Write([]byte{0, 0})
	b.Write(data)
	return b.Bytes()
}

// tagBytes builds a tag with the given frames and trailing padding.
func tagBytes(major byte, padding int, frames ...[]byte) []byte {
	body := append(bytes.Join(frames, nil), make([]byte, padding)...)
	size := uint32(len(body))
	out := []byte{'I', 'D', '3', major, 0, 0,
		byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F)}
	return append(out, body...)
}

func text(s string) []byte {
	return append([]byte{0}, s...)
}

// writeTemp writes data to a new file in a per-test directory.
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func openTest(t *testing.T, path string, opts ...Option) *File {
	t.Helper()
	f, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func mustGet(t *testing.T, f *File, field Field) string {
	t.Helper()
	v, err := f.Get(field)
	if err != nil {
		t.Fatalf("Get(%s): %v", field.Name, err)
	}
	return v
}

// audioOf returns what follows the tag region of a saved file.
func audioOf(t *testing.T, path string) []byte {
	t.Helper()
	f := openTest(t, path)
	data := readFile(t, path)
	return data[f.Tag.Size:]
}
