package binary

import "github.com/simonhull/tagstat/internal/types"

// MaxSynchsafe is the largest value representable as a 4-byte synchsafe integer.
const MaxSynchsafe = types.MaxSynchsafe

// DecodeSynchsafe decodes a 4-byte synchsafe integer (7 significant bits per
// byte). A byte with its high bit set yields *types.MalformedIntegerError.
func DecodeSynchsafe(b []byte, what string) (uint32, error) {
	if len(b) != 4 || (b[0]|b[1]|b[2]|b[3])&0x80 != 0 {
		return 0, &types.MalformedIntegerError{What: what, Bytes: append([]byte(nil), b...)}
	}
	return uint32(b[0])<<21 |
		uint32(b[1])<<14 |
		uint32(b[2])<<7 |
		uint32(b[3]), nil
}

// EncodeSynchsafe encodes v as a 4-byte synchsafe integer. Values above
// MaxSynchsafe yield *types.TagTooLargeError.
func EncodeSynchsafe(v uint32) ([4]byte, error) {
	if v > MaxSynchsafe {
		return [4]byte{}, &types.TagTooLargeError{Size: int64(v)}
	}
	return [4]byte{
		byte(v >> 21 & 0x7F),
		byte(v >> 14 & 0x7F),
		byte(v >> 7 & 0x7F),
		byte(v & 0x7F),
	}, nil
}

// ReadSynchsafe reads a synchsafe integer and advances the offset.
func ReadSynchsafe(r *Reader, what string) (uint32, error) {
	start := r.Offset()
	b, err := r.ReadBytes(4, what)
	if err != nil {
		return 0, err
	}
	v, err := DecodeSynchsafe(b, what)
	if err != nil {
		r.offset = start
		return 0, err
	}
	return v, nil
}

// WriteSynchsafe writes v as a synchsafe integer.
func WriteSynchsafe(sw *SafeWriter, v uint32) error {
	b, err := EncodeSynchsafe(v)
	if err != nil {
		return err
	}
	return sw.WriteBytes(b[:])
}
