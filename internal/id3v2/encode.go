package id3v2

import (
	"bytes"
	"fmt"

	binutil "github.com/simonhull/tagstat/internal/binary"
	"github.com/simonhull/tagstat/internal/types"
)

// Encode serializes the tag followed by padding zero bytes.
//
// The header keeps the tag's version with all flags cleared: the output is
// never unsynchronised and has no extended header or footer. A body larger
// than a synchsafe integer can describe fails with *types.TagTooLargeError
// before any buffer is allocated.
func (t *Tag) Encode(padding int) ([]byte, error) {
	major := t.Header.Major
	if major != 3 && major != 4 {
		return nil, &types.UnsupportedVersionError{Major: major, Revision: t.Header.Revision}
	}
	padding = max(padding, 0)

	var body int64
	for _, f := range t.Frames {
		if !ValidID(f.ID) {
			return nil, &types.CorruptedTagError{Reason: fmt.Sprintf("invalid frame id %q", f.ID)}
		}
		if major == 4 && len(f.Data) > binutil.MaxSynchsafe {
			return nil, &types.TagTooLargeError{Size: int64(len(f.Data))}
		}
		body += HeaderSize + int64(len(f.Data))
	}
	if total := body + int64(padding); total > binutil.MaxSynchsafe {
		return nil, &types.TagTooLargeError{Size: total}
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + int(body) + padding)
	sw := binutil.NewSafeWriter(&buf)

	if err := t.encodeHeader(sw, uint32(body)+uint32(padding)); err != nil {
		return nil, err
	}
	for _, f := range t.Frames {
		if err := encodeFrame(sw, f, major); err != nil {
			return nil, err
		}
	}
	if err := sw.WriteBytes(make([]byte, padding)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (t *Tag) encodeHeader(sw *binutil.SafeWriter, size uint32) error {
	if err := sw.WriteString(Magic); err != nil {
		return err
	}
	if err := binutil.Write(sw, t.Header.Major); err != nil {
		return err
	}
	if err := binutil.Write(sw, t.Header.Revision); err != nil {
		return err
	}
	if err := binutil.Write[uint8](sw, 0); err != nil {
		return err
	}
	return binutil.WriteSynchsafe(sw, size)
}

func encodeFrame(sw *binutil.SafeWriter, f *Frame, major byte) error {
	if err := sw.WriteString(f.ID); err != nil {
		return err
	}

	size := uint32(len(f.Data))
	if major == 4 {
		if err := binutil.WriteSynchsafe(sw, size); err != nil {
			return err
		}
	} else if err := binutil.Write(sw, size); err != nil {
		return err
	}

	if err := binutil.Write(sw, uint16(f.Flags)); err != nil {
		return err
	}
	return sw.WriteBytes(f.Data)
}
