package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/tagstat/internal/types"
)

func TestDecodeSynchsafe(t *testing.T) {
	tests := []struct {
		input    []byte
		expected uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x00, 0x00, 0x00, 0x7F}, 127},
		{[]byte{0x00, 0x00, 0x01, 0x00}, 128},
		{[]byte{0x00, 0x00, 0x02, 0x00}, 256},
		{[]byte{0x00, 0x00, 0x00, 0x14}, 20},
		{[]byte{0x7F, 0x7F, 0x7F, 0x7F}, MaxSynchsafe},
	}

	for _, tt := range tests {
		got, err := DecodeSynchsafe(tt.input, "size")
		if err != nil {
			t.Errorf("DecodeSynchsafe(% x): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("DecodeSynchsafe(% x) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestDecodeSynchsafe_Malformed(t *testing.T) {
	inputs := [][]byte{
		{0x80, 0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0xFF},
		{0x00, 0x00, 0x01},
		{0x00, 0x00, 0x00, 0x00, 0x00},
	}

	for _, in := range inputs {
		_, err := DecodeSynchsafe(in, "tag size")
		var mi *types.MalformedIntegerError
		if !errors.As(err, &mi) {
			t.Errorf("DecodeSynchsafe(% x): expected *MalformedIntegerError, got %v", in, err)
		}
	}
}

func TestEncodeSynchsafe(t *testing.T) {
	tests := []struct {
		input uint32
		want  [4]byte
	}{
		{0, [4]byte{0, 0, 0, 0}},
		{127, [4]byte{0, 0, 0, 0x7F}},
		{128, [4]byte{0, 0, 1, 0}},
		{18, [4]byte{0, 0, 0, 0x12}},
		{MaxSynchsafe, [4]byte{0x7F, 0x7F, 0x7F, 0x7F}},
	}

	for _, tt := range tests {
		got, err := EncodeSynchsafe(tt.input)
		if err != nil {
			t.Errorf("EncodeSynchsafe(%d): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EncodeSynchsafe(%d) = % x, want % x", tt.input, got, tt.want)
		}
	}
}

func TestEncodeSynchsafe_TooLarge(t *testing.T) {
	for _, v := range []uint32{MaxSynchsafe + 1, 1 << 31, 0xFFFFFFFF} {
		_, err := EncodeSynchsafe(v)
		var tl *types.TagTooLargeError
		if !errors.As(err, &tl) {
			t.Errorf("EncodeSynchsafe(%d): expected *TagTooLargeError, got %v", v, err)
			continue
		}
		if tl.Size != int64(v) {
			t.Errorf("expected size %d in error, got %d", v, tl.Size)
		}
	}
}

func TestSynchsafe_RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000, 0xABCDEF, MaxSynchsafe - 1, MaxSynchsafe}
	for v := uint32(0); v < 1<<16; v += 97 {
		values = append(values, v)
	}

	for _, v := range values {
		enc, err := EncodeSynchsafe(v)
		if err != nil {
			t.Fatalf("EncodeSynchsafe(%d): %v", v, err)
		}
		for _, b := range enc {
			if b&0x80 != 0 {
				t.Fatalf("EncodeSynchsafe(%d) set a high bit: % x", v, enc)
			}
		}
		dec, err := DecodeSynchsafe(enc[:], "round trip")
		if err != nil {
			t.Fatalf("DecodeSynchsafe(% x): %v", enc, err)
		}
		if dec != v {
			t.Fatalf("round trip %d -> % x -> %d", v, enc, dec)
		}
	}
}

func TestReadWriteSynchsafe(t *testing.T) {
	buf := &bytes.Buffer{}
	sw := NewSafeWriter(buf)
	if err := WriteSynchsafe(sw, 300); err != nil {
		t.Fatalf("WriteSynchsafe: %v", err)
	}
	if err := WriteSynchsafe(sw, MaxSynchsafe+1); err == nil {
		t.Fatal("expected error for oversized value")
	}

	data := append(buf.Bytes(), 0x80, 0, 0, 0)
	r := NewReader(NewSafeReader(bytes.NewReader(data), int64(len(data)), "rw.mp3"), 0)

	v, err := ReadSynchsafe(r, "size")
	if err != nil || v != 300 {
		t.Fatalf("ReadSynchsafe = %d, %v; want 300", v, err)
	}

	_, err = ReadSynchsafe(r, "bad size")
	var mi *types.MalformedIntegerError
	if !errors.As(err, &mi) {
		t.Fatalf("expected *MalformedIntegerError, got %v", err)
	}
	if r.Offset() != 4 {
		t.Errorf("malformed read must not advance, offset %d", r.Offset())
	}
}
