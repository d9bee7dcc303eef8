package id3v2

import (
	"bytes"
	"fmt"
	"io"

	binutil "github.com/simonhull/tagstat/internal/binary"
	"github.com/simonhull/tagstat/internal/types"
)

// Decode parses the tag at the start of r, which holds size bytes.
//
// A file that does not start with "ID3" has no tag: Decode returns an empty
// v2.4 tag with Size zero and no error. Once the magic is present every
// structural problem is an error.
func Decode(r io.ReaderAt, size int64, path string) (*Tag, error) {
	sr := binutil.NewSafeReader(r, size, path)

	if size < int64(len(Magic)) {
		return NewTag(), nil
	}
	magic := make([]byte, len(Magic))
	if err := sr.ReadAt(magic, 0, "ID3v2 magic"); err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return NewTag(), nil
	}

	header, err := decodeHeader(sr)
	if err != nil {
		return nil, err
	}

	end := int64(HeaderSize) + int64(header.Size)
	if end > size {
		return nil, &types.TruncatedTagError{
			Path:   path,
			Offset: size,
			Reason: fmt.Sprintf("declared tag end %d is past end of file (%d bytes)", end, size),
		}
	}

	region := end
	if header.Major == 4 && header.Flags.Footer() {
		region += FooterSize
		if region > size {
			return nil, &types.TruncatedTagError{
				Path:   path,
				Offset: end,
				Reason: "footer is past end of file",
			}
		}
	}

	body := make([]byte, header.Size)
	if err := sr.ReadAt(body, HeaderSize, "tag body"); err != nil {
		return nil, &types.TruncatedTagError{Path: path, Offset: HeaderSize, Reason: "tag body", Err: err}
	}
	if header.Major == 3 && header.Flags.Unsynchronisation() {
		body = resync(body)
	}

	frames, err := decodeFrames(body, header, path)
	if err != nil {
		return nil, err
	}

	return &Tag{Header: header, Frames: frames, Size: region}, nil
}

func decodeHeader(sr *binutil.SafeReader) (Header, error) {
	if sr.Size() < HeaderSize {
		return Header{}, &types.TruncatedTagError{
			Path:   sr.Path(),
			Offset: sr.Size(),
			Reason: fmt.Sprintf("tag header needs %d bytes, file has %d", HeaderSize, sr.Size()),
		}
	}

	cr := binutil.NewChainReader(binutil.NewReader(sr, int64(len(Magic))))
	major := binutil.ReadChained[uint8](cr, "major version")
	revision := binutil.ReadChained[uint8](cr, "revision")
	flags := binutil.ReadChained[uint8](cr, "header flags")
	if err := cr.Error(); err != nil {
		return Header{}, err
	}

	if major != 3 && major != 4 {
		return Header{}, &types.UnsupportedVersionError{Path: sr.Path(), Major: major, Revision: revision}
	}

	tagSize := cr.Synchsafe("tag size")
	if err := cr.Error(); err != nil {
		return Header{}, fmt.Errorf("%s: %w", sr.Path(), err)
	}

	return Header{
		Major:    major,
		Revision: revision,
		Flags:    HeaderFlags(flags),
		Size:     tagSize,
	}, nil
}

// decodeFrames walks the tag body. Offsets in errors are file offsets,
// which are approximate for a resynchronised v2.3 body.
func decodeFrames(body []byte, header Header, path string) ([]*Frame, error) {
	sr := binutil.NewSafeReader(bytes.NewReader(body), int64(len(body)), path)
	r := binutil.NewReader(sr, 0)

	truncated := func(reason string, err error) error {
		return &types.TruncatedTagError{
			Path:   path,
			Offset: HeaderSize + r.Offset(),
			Reason: reason,
			Err:    err,
		}
	}

	if header.Flags.ExtendedHeader() {
		if err := skipExtendedHeader(r, header.Major); err != nil {
			return nil, truncated("extended header", err)
		}
	}

	var frames []*Frame
	for r.Remaining() > 0 {
		frameOffset := HeaderSize + r.Offset()

		if r.Remaining() < 4 {
			rest, _ := r.ReadBytes(int(r.Remaining()), "padding")
			if allZero(rest) {
				break
			}
			return nil, truncated("frame header", nil)
		}

		idBytes, err := r.ReadBytes(4, "frame id")
		if err != nil {
			return nil, truncated("frame id", err)
		}
		if allZero(idBytes) {
			break // padding
		}
		id := string(idBytes)
		if !ValidID(id) {
			return nil, &types.CorruptedTagError{
				Path:   path,
				Reason: fmt.Sprintf("invalid frame id %q", id),
				Offset: frameOffset,
			}
		}

		sizeBytes, err := r.ReadBytes(4, "frame "+id+" size")
		if err != nil {
			return nil, truncated("frame "+id+" header", err)
		}
		frameSize, err := decodeFrameSize(sizeBytes, header.Major, id)
		if err != nil {
			return nil, fmt.Errorf("%s: offset %d: %w", path, frameOffset, err)
		}

		flags, err := binutil.ReadValue[uint16](r, "frame "+id+" flags")
		if err != nil {
			return nil, truncated("frame "+id+" header", err)
		}

		data, err := r.ReadBytes(int(frameSize), "frame "+id+" payload")
		if err != nil {
			return nil, truncated("frame "+id+" payload", err)
		}

		frames = append(frames, &Frame{ID: id, Flags: FrameFlags(flags), Data: data})
	}

	return frames, nil
}

// decodeFrameSize decodes a frame size: synchsafe in v2.4, plain big-endian in v2.3.
func decodeFrameSize(b []byte, major byte, id string) (uint32, error) {
	if major == 4 {
		return binutil.DecodeSynchsafe(b, "frame "+id+" size")
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func skipExtendedHeader(r *binutil.Reader, major byte) error {
	if major == 3 {
		n, err := binutil.ReadValue[uint32](r, "extended header size")
		if err != nil {
			return err
		}
		_, err = r.ReadBytes(int(n), "extended header")
		return err
	}

	start := r.Offset()
	n, err := binutil.ReadSynchsafe(r, "extended header size")
	if err != nil {
		return err
	}
	if n < 4 {
		return fmt.Errorf("extended header size %d smaller than its size field", n)
	}
	_, err = r.ReadBytes(int(int64(n)-(r.Offset()-start)), "extended header")
	return err
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
