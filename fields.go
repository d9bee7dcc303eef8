package tagstat

import "strings"

// Field describes one of the editable text fields and the frame that
// stores it.
type Field struct {
	Name        string // Long flag name, e.g. "title"
	Short       string // Short flag name, e.g. "t"
	Label       string // Label printed in view mode
	ID          string // Frame identifier
	LegacyID    string // Frame identifier used by v2.3 tags, if different
	Description string
}

var (
	Title  = Field{Name: "title", Short: "t", Label: "Title", ID: "TIT2", Description: "set the title"}
	Artist = Field{Name: "artist", Short: "a", Label: "Artist", ID: "TPE1", Description: "set the artist"}
	Album  = Field{Name: "album", Short: "b", Label: "Album", ID: "TALB", Description: "set the album"}
	Year   = Field{Name: "year", Short: "y", Label: "Year", ID: "TDRC", LegacyID: "TYER", Description: "set the year"}
)

// Fields lists the editable fields in display order.
var Fields = []Field{Title, Artist, Album, Year}

// FrameID returns the identifier the field is written under in a tag of the
// given major version.
func (f Field) FrameID(major byte) string {
	if major == 3 && f.LegacyID != "" {
		return f.LegacyID
	}
	return f.ID
}

// aliases returns every identifier the field may be stored under, with the
// version's own identifier first.
func (f Field) aliases(major byte) []string {
	if f.LegacyID == "" {
		return []string{f.ID}
	}
	if major == 3 {
		return []string{f.LegacyID, f.ID}
	}
	return []string{f.ID, f.LegacyID}
}

// FieldByName looks a field up by its long or short name, ignoring case.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(name, f.Name) || name == f.Short {
			return f, true
		}
	}
	return Field{}, false
}
