// Package id3v2 implements an ID3v2.3/2.4 tag codec: parsing a tag from the
// start of a file into an ordered frame list, editing text frames, and
// serializing the result.
//
// Frames the codec does not edit are kept as raw bytes with their flags, so
// a decode/encode cycle preserves them verbatim.
package id3v2

import "fmt"

const (
	// Magic identifies an ID3v2 tag at offset 0.
	Magic = "ID3"

	// HeaderSize is the size of the tag header and of each frame header.
	HeaderSize = 10

	// FooterSize is the size of the optional ID3v2.4 footer.
	FooterSize = 10

	// DefaultMajor and DefaultRevision are used for newly created tags.
	DefaultMajor    = 4
	DefaultRevision = 0
)

// HeaderFlags is the flags byte of the tag header.
type HeaderFlags byte

// Unsynchronisation reports whether the whole tag is unsynchronised (v2.3).
func (f HeaderFlags) Unsynchronisation() bool {
	return f&0x80 != 0
}

func (f HeaderFlags) ExtendedHeader() bool {
	return f&0x40 != 0
}

func (f HeaderFlags) Experimental() bool {
	return f&0x20 != 0
}

// Footer reports whether a v2.4 footer follows the tag body.
func (f HeaderFlags) Footer() bool {
	return f&0x10 != 0
}

// Header is the 10-byte tag header.
type Header struct {
	Major    byte
	Revision byte
	Flags    HeaderFlags
	Size     uint32 // Tag size excluding the header, synchsafe on disk
}

// Version returns the version as "2.major.revision".
func (h Header) Version() string {
	return fmt.Sprintf("2.%d.%d", h.Major, h.Revision)
}
