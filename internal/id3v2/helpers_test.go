package id3v2

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// rawFrame builds a frame as stored on disk for the given major version.
func rawFrame(major byte, id string, flags uint16, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString(id)
	size := uint32(len(data))
	if major == 4 {
		b.Write(synchsafe(size))
	} else {
		_ = binary.Write(&b, binary.BigEndian, size)
	}
	_ = binary.Write(&b, binary.BigEndian, flags)
	b.Write(data)
	return b.Bytes()
}

// rawTag builds a tag header plus body. The declared size is len(body).
func rawTag(major byte, flags byte, body ...[]byte) []byte {
	joined := bytes.Join(body, nil)
	out := []byte{'I', 'D', '3', major, 0, flags}
	out = append(out, synchsafe(uint32(len(joined)))...)
	return append(out, joined...)
}

func synchsafe(v uint32) []byte {
	return []byte{byte(v >> 21 & 0x7F), byte(v >> 14 & 0x7F), byte(v >> 7 & 0x7F), byte(v & 0x7F)}
}

func latin1(s string) []byte {
	return append([]byte{0}, s...)
}

func decodeBytes(t *testing.T, data []byte) *Tag {
	t.Helper()
	tag, err := Decode(bytes.NewReader(data), int64(len(data)), "test.mp3")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return tag
}

func mustText(t *testing.T, tag *Tag, id string) string {
	t.Helper()
	text, ok, err := tag.Text(id)
	if err != nil {
		t.Fatalf("Text(%s): %v", id, err)
	}
	if !ok {
		t.Fatalf("Text(%s): frame not found", id)
	}
	return text
}
