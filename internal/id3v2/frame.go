package id3v2

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FrameFlags is the 2-byte flags field of a frame header. The layout differs
// between v2.3 and v2.4, so the helpers take the tag's major version.
type FrameFlags uint16

func (f FrameFlags) Compressed(major byte) bool {
	if major == 3 {
		return f&0x0080 != 0
	}
	return f&0x0008 != 0
}

func (f FrameFlags) Encrypted(major byte) bool {
	if major == 3 {
		return f&0x0040 != 0
	}
	return f&0x0004 != 0
}

func (f FrameFlags) Grouped(major byte) bool {
	if major == 3 {
		return f&0x0020 != 0
	}
	return f&0x0040 != 0
}

// Unsynchronised reports per-frame unsynchronisation, which only exists in v2.4.
func (f FrameFlags) Unsynchronised(major byte) bool {
	return major >= 4 && f&0x0002 != 0
}

// DataLengthIndicator reports a 4-byte synchsafe length prefix (v2.4 only).
func (f FrameFlags) DataLengthIndicator(major byte) bool {
	return major >= 4 && f&0x0001 != 0
}

// Frame is a single tag frame. Data is the payload exactly as stored on
// disk after tag-level unsynchronisation has been reversed.
type Frame struct {
	ID    string
	Flags FrameFlags
	Data  []byte
}

// ValidID reports whether id is four characters from A-Z and 0-9.
func ValidID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// IsTextID reports whether id names a text information frame.
func IsTextID(id string) bool {
	return len(id) == 4 && id[0] == 'T' && id != "TXXX"
}

// NewTextFrame builds a text frame holding text, encoded as ISO-8859-1 when
// possible and otherwise in the version's Unicode encoding.
func NewTextFrame(id, text string, major byte) (*Frame, error) {
	f := &Frame{ID: id}
	if err := f.SetText(text, major); err != nil {
		return nil, err
	}
	return f, nil
}

// SetText replaces the payload with text. Format flags are cleared since the
// new payload is neither compressed nor unsynchronised.
func (f *Frame) SetText(text string, major byte) error {
	enc := chooseEncoding(text, major)
	b, err := encodeText(text, enc)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", f.ID, err)
	}
	f.Flags = 0
	f.Data = append([]byte{byte(enc)}, b...)
	return nil
}

// Encoding returns the text encoding marker of a text frame.
func (f *Frame) Encoding(major byte) (Encoding, error) {
	content, err := f.content(major)
	if err != nil {
		return 0, err
	}
	if len(content) == 0 {
		return EncodingISO88591, nil
	}
	return Encoding(content[0]), nil
}

// Text decodes a text frame. Multiple values are joined with "/".
func (f *Frame) Text(major byte) (string, error) {
	if !IsTextID(f.ID) {
		return "", fmt.Errorf("%s is not a text frame", f.ID)
	}

	content, err := f.content(major)
	if err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", nil
	}

	s, err := decodeText(content[1:], Encoding(content[0]))
	if err != nil {
		return "", fmt.Errorf("frame %s: %w", f.ID, err)
	}
	return s, nil
}

// content returns the payload with frame-level extras removed: group and
// encryption bytes, size prefixes, v2.4 unsynchronisation and compression.
func (f *Frame) content(major byte) ([]byte, error) {
	data := f.Data

	if f.Flags.Encrypted(major) {
		return nil, fmt.Errorf("frame %s is encrypted", f.ID)
	}

	var prefix int
	if major == 3 {
		if f.Flags.Compressed(major) {
			prefix += 4 // decompressed size
		}
		if f.Flags.Grouped(major) {
			prefix++
		}
	} else {
		if f.Flags.Grouped(major) {
			prefix++
		}
		if f.Flags.DataLengthIndicator(major) {
			prefix += 4
		}
	}
	if len(data) < prefix {
		return nil, fmt.Errorf("frame %s: payload shorter than its flag fields", f.ID)
	}
	data = data[prefix:]

	if f.Flags.Unsynchronised(major) {
		data = resync(data)
	}

	if f.Flags.Compressed(major) {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", f.ID, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("frame %s: inflate: %w", f.ID, err)
		}
		data = out
	}

	return data, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{ID: f.ID, Flags: f.Flags, Data: append([]byte(nil), f.Data...)}
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s (%s, size: %d, flags: 0x%04x)", f.ID, FrameName(f.ID), len(f.Data), uint16(f.Flags))
}

// resync reverses unsynchronisation by dropping the 0x00 inserted after
// every 0xFF.
func resync(b []byte) []byte {
	if bytes.IndexByte(b, 0xFF) < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
