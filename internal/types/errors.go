// Package types provides the error taxonomy and warning type shared by the
// tag codec packages.
package types

import "fmt"

// MaxSynchsafe is the largest value a 4-byte synchsafe integer can hold.
const MaxSynchsafe = 1<<28 - 1

// UnexpectedEndOfDataError is returned when a read needs more bytes than remain.
type UnexpectedEndOfDataError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *UnexpectedEndOfDataError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (data size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed data size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// MalformedIntegerError is returned when a synchsafe integer has a byte with
// its high bit set, or is not exactly four bytes long.
type MalformedIntegerError struct {
	What  string
	Bytes []byte
}

func (e *MalformedIntegerError) Error() string {
	return fmt.Sprintf("malformed synchsafe integer for %s: % x", e.What, e.Bytes)
}

// TruncatedTagError is returned when a frame header or payload runs past the
// declared tag size or the end of the file.
type TruncatedTagError struct {
	Path   string
	Offset int64
	Reason string
	Err    error
}

func (e *TruncatedTagError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: truncated tag at offset %d: %s: %v", e.Path, e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: truncated tag at offset %d: %s", e.Path, e.Offset, e.Reason)
}

func (e *TruncatedTagError) Unwrap() error {
	return e.Err
}

// CorruptedTagError is returned when the tag structure is readable but invalid.
type CorruptedTagError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedTagError) Error() string {
	return fmt.Sprintf("%s: corrupted tag at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnsupportedVersionError is returned for ID3v2 major versions other than 3 and 4.
type UnsupportedVersionError struct {
	Path     string
	Major    byte
	Revision byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: unsupported ID3v2 version: 2.%d.%d", e.Path, e.Major, e.Revision)
}

// TagTooLargeError is returned when a size does not fit the 28-bit synchsafe range.
type TagTooLargeError struct {
	Size int64
}

func (e *TagTooLargeError) Error() string {
	return fmt.Sprintf("tag size %d exceeds synchsafe maximum %d", e.Size, MaxSynchsafe)
}

// FileUnwritableError is returned when the target cannot be opened for
// reading and writing, or the replacement file cannot be created.
type FileUnwritableError struct {
	Path string
	Err  error
}

func (e *FileUnwritableError) Error() string {
	return fmt.Sprintf("%s: cannot open file for update: %v", e.Path, e.Err)
}

func (e *FileUnwritableError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings are only produced when lenient parsing is enabled: a tag that
// would otherwise fail to parse is treated as absent and the reason is
// recorded here.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "header", "frames"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
