package tagstat

import (
	"github.com/simonhull/tagstat/internal/types"
)

// UnexpectedEndOfDataError is an alias to types.UnexpectedEndOfDataError.
// Re-exporting from internal/types to maintain public API.
type UnexpectedEndOfDataError = types.UnexpectedEndOfDataError

// MalformedIntegerError is an alias to types.MalformedIntegerError.
type MalformedIntegerError = types.MalformedIntegerError

// TruncatedTagError is an alias to types.TruncatedTagError.
type TruncatedTagError = types.TruncatedTagError

// CorruptedTagError is an alias to types.CorruptedTagError.
type CorruptedTagError = types.CorruptedTagError

// UnsupportedVersionError is an alias to types.UnsupportedVersionError.
type UnsupportedVersionError = types.UnsupportedVersionError

// TagTooLargeError is an alias to types.TagTooLargeError.
type TagTooLargeError = types.TagTooLargeError

// FileUnwritableError is an alias to types.FileUnwritableError.
type FileUnwritableError = types.FileUnwritableError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning

// MaxTagSize is the largest tag body, in bytes, a synchsafe size can describe.
const MaxTagSize = types.MaxSynchsafe
