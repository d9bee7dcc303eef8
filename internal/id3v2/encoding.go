package id3v2

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding marker that starts a text frame payload.
type Encoding byte

const (
	EncodingISO88591 Encoding = 0 // ISO-8859-1
	EncodingUTF16    Encoding = 1 // UTF-16 with BOM
	EncodingUTF16BE  Encoding = 2 // UTF-16BE, v2.4 only
	EncodingUTF8     Encoding = 3 // UTF-8, v2.4 only
)

func (e Encoding) String() string {
	switch e {
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("Encoding(%d)", byte(e))
	}
}

// Valid reports whether e is one of the four defined encodings.
func (e Encoding) Valid() bool {
	return e <= EncodingUTF8
}

func (e Encoding) wide() bool {
	return e == EncodingUTF16 || e == EncodingUTF16BE
}

// chooseEncoding picks ISO-8859-1 when every rune fits, otherwise the
// version's Unicode encoding (UTF-8 does not exist before v2.4).
func chooseEncoding(s string, major byte) Encoding {
	latin1 := true
	for _, r := range s {
		if r > 0xFF {
			latin1 = false
			break
		}
	}
	switch {
	case latin1:
		return EncodingISO88591
	case major >= 4:
		return EncodingUTF8
	default:
		return EncodingUTF16
	}
}

// splitValues splits text bytes on terminators. A trailing terminator does
// not produce an empty value.
func splitValues(b []byte, enc Encoding) [][]byte {
	var values [][]byte
	if !enc.wide() {
		values = bytes.Split(b, []byte{0})
	} else {
		prev := 0
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				values = append(values, b[prev:i])
				prev = i + 2
			}
		}
		values = append(values, b[prev:])
	}

	for len(values) > 1 && len(values[len(values)-1]) == 0 {
		values = values[:len(values)-1]
	}
	return values
}

func decodeValue(b []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingISO88591:
		return charmap.ISO8859_1.NewDecoder().String(string(b))
	case EncodingUTF16:
		// Big-endian when the BOM is missing.
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().String(string(b))
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().String(string(b))
	case EncodingUTF8:
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown text encoding %d", byte(enc))
	}
}

// decodeText decodes a text payload without its encoding byte. Multiple
// values (v2.4) are joined with "/".
func decodeText(b []byte, enc Encoding) (string, error) {
	if !enc.Valid() {
		return "", fmt.Errorf("unknown text encoding %d", byte(enc))
	}

	var parts []string
	for _, v := range splitValues(b, enc) {
		s, err := decodeValue(v, enc)
		if err != nil {
			return "", fmt.Errorf("decode %s text: %w", enc, err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/"), nil
}

// encodeText encodes s without a terminator.
func encodeText(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingISO88591:
		out, err := charmap.ISO8859_1.NewEncoder().String(s)
		return []byte(out), err
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	case EncodingUTF8:
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unknown text encoding %d", byte(enc))
	}
}
