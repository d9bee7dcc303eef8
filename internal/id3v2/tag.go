package id3v2

import "slices"

// Tag is an ID3v2 tag: its header and ordered frames.
//
// Size is the number of bytes the tag occupied at the start of the file
// (header, body and footer), or zero when the file had no tag. It tells the
// file layer where the audio begins.
type Tag struct {
	Header Header
	Frames []*Frame
	Size   int64
}

// NewTag returns an empty v2.4.0 tag.
func NewTag() *Tag {
	return &Tag{Header: Header{Major: DefaultMajor, Revision: DefaultRevision}}
}

// Present reports whether the tag was read from a file.
func (t *Tag) Present() bool {
	return t.Size > 0
}

// Find returns the first frame with the given id, or nil.
func (t *Tag) Find(id string) *Frame {
	for _, f := range t.Frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FindAll returns every frame with the given id in tag order.
func (t *Tag) FindAll(id string) []*Frame {
	var frames []*Frame
	for _, f := range t.Frames {
		if f.ID == id {
			frames = append(frames, f)
		}
	}
	return frames
}

// Remove detaches frame from the tag. It is a no-op if frame is not attached.
func (t *Tag) Remove(frame *Frame) {
	if i := slices.Index(t.Frames, frame); i >= 0 {
		t.Frames = slices.Delete(t.Frames, i, i+1)
	}
}

// RemoveAll detaches every frame with the given id.
func (t *Tag) RemoveAll(id string) {
	t.Frames = slices.DeleteFunc(t.Frames, func(f *Frame) bool {
		return f.ID == id
	})
}

// Attach appends frame to the tag. Duplicates are not checked.
func (t *Tag) Attach(frame *Frame) {
	t.Frames = append(t.Frames, frame)
}

// SetText replaces every frame with the given id by a single text frame
// holding text.
func (t *Tag) SetText(id, text string) error {
	f, err := NewTextFrame(id, text, t.Header.Major)
	if err != nil {
		return err
	}
	t.RemoveAll(id)
	t.Attach(f)
	return nil
}

// Text returns the decoded text of the first frame with the given id.
// ok is false when no such frame exists.
func (t *Tag) Text(id string) (text string, ok bool, err error) {
	f := t.Find(id)
	if f == nil {
		return "", false, nil
	}
	text, err = f.Text(t.Header.Major)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}
