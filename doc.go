// Package tagstat reads and edits ID3v2.3 and ID3v2.4 tags at the start of
// audio files.
//
// The editable surface is deliberately small: title, artist, album and year.
// Every other frame is carried through a read-modify-write cycle byte for
// byte, and the audio after the tag is never altered.
//
// # Quick Start
//
// Viewing a file:
//
//	file, err := tagstat.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	title, _ := file.Get(tagstat.Title)
//	fmt.Println(title)
//
// Editing a file:
//
//	if err := file.Set(tagstat.Title, "NewSong"); err != nil {
//		log.Fatal(err)
//	}
//	if err := file.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// Or in one call:
//
//	err := tagstat.Update("song.mp3",
//	    []tagstat.Edit{{Field: tagstat.Year, Value: "2024"}}, nil)
//
// # Versions
//
// A parsed tag keeps its version; a file without a tag gets a new v2.4.0
// tag. The year lives in TDRC for v2.4 and TYER for v2.3; Set removes both
// before writing the one that matches the tag. New text is stored as
// ISO-8859-1 when it fits, otherwise as UTF-8 (v2.4) or UTF-16 (v2.3).
//
// # Error Handling
//
// Errors are typed and matched with errors.As:
//
//   - *FileUnwritableError: the file cannot be opened for update or replaced
//   - *TruncatedTagError, *CorruptedTagError, *MalformedIntegerError,
//     *UnsupportedVersionError: the tag cannot be parsed
//   - *TagTooLargeError: the edited tag no longer fits a synchsafe size
//
// A file with no "ID3" magic is not an error. A file whose tag is malformed
// is, unless WithLenientParsing is given; the tag is then treated as absent
// and the reason recorded in File.Warnings.
//
// # Saving
//
// Save writes to a temporary file and renames it over the original, or
// rewrites the file in place with WithInPlaceRewrite.
package tagstat
