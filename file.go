package tagstat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tagstat/internal/id3v2"
	"github.com/simonhull/tagstat/internal/types"
)

// File is an opened audio file with its parsed ID3v2 tag.
//
// The file is opened for reading and writing so that Save can rewrite it.
// Always call Close() when done to release the handle:
//
//	file, err := tagstat.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path to the audio file
	Path string

	// File size in bytes
	Size int64

	// Parsed tag. For a file without a tag this is an empty v2.4 tag
	// whose Size is zero.
	Tag *id3v2.Tag

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning

	handle *os.File
}

// Edit is a single field assignment applied by Update.
type Edit struct {
	Field Field
	Value string
}

// Open opens an audio file for update and parses its tag.
//
// A file without a tag is not an error; it gets an empty tag that Save
// writes in front of the audio. A malformed tag is an error unless
// WithLenientParsing is given.
//
// Open returns *FileUnwritableError when the path cannot be opened for
// reading and writing: it does not exist, is a directory, or lacks
// permission.
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	fh, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &types.FileUnwritableError{Path: path, Err: err}
	}

	stat, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !stat.Mode().IsRegular() {
		fh.Close()
		return nil, &types.FileUnwritableError{Path: path, Err: fmt.Errorf("not a regular file (%s)", stat.Mode().Type())}
	}

	file, err := openReader(fh, stat.Size(), path, options)
	if err != nil {
		fh.Close()
		return nil, err
	}
	file.handle = fh

	return file, nil
}

// openReader parses the tag from an io.ReaderAt (internal, for testing)
func openReader(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	file := &File{Path: path, Size: size}

	tag, err := id3v2.Decode(r, size, path)
	if err != nil {
		if !options.lenient {
			return nil, fmt.Errorf("parse tag: %w", err)
		}
		file.Warnings = append(file.Warnings, Warning{
			Stage:   "tag",
			Message: fmt.Sprintf("malformed tag treated as absent: %v", err),
			Offset:  errorOffset(err),
		})
		tag = id3v2.NewTag()
	}
	file.Tag = tag

	if options.ignoreWarnings {
		file.Warnings = nil
	}

	return file, nil
}

// errorOffset extracts the file offset carried by a parse error, if any.
func errorOffset(err error) int64 {
	var truncated *types.TruncatedTagError
	if errors.As(err, &truncated) {
		return truncated.Offset
	}
	var corrupted *types.CorruptedTagError
	if errors.As(err, &corrupted) {
		return corrupted.Offset
	}
	return 0
}

// Close releases the file handle.
//
// After Close is called, the File should not be used. Calling Close more
// than once is safe.
func (f *File) Close() error {
	if f.handle == nil {
		return nil
	}
	err := f.handle.Close()
	f.handle = nil
	return err
}

// Get returns the value of a field, or "" when the tag has no such frame.
//
// The frame for the tag's version is tried first, then the other
// version's identifier, so a v2.4 tag carrying a TYER frame still has a year.
func (f *File) Get(field Field) (string, error) {
	for _, id := range field.aliases(f.Tag.Header.Major) {
		text, ok, err := f.Tag.Text(id)
		if err != nil {
			return "", &types.CorruptedTagError{
				Path:   f.Path,
				Reason: fmt.Sprintf("%s: %v", field.Name, err),
			}
		}
		if ok {
			return text, nil
		}
	}
	return "", nil
}

// Has reports whether the tag stores the field under any of its identifiers.
func (f *File) Has(field Field) bool {
	for _, id := range field.aliases(f.Tag.Header.Major) {
		if f.Tag.Find(id) != nil {
			return true
		}
	}
	return false
}

// Set replaces the field with value. Every frame holding the field is
// removed and a single text frame is attached under the identifier for the
// tag's version. Nothing is written until Save.
func (f *File) Set(field Field, value string) error {
	frame, err := id3v2.NewTextFrame(field.FrameID(f.Tag.Header.Major), value, f.Tag.Header.Major)
	if err != nil {
		return err
	}
	for _, id := range field.aliases(f.Tag.Header.Major) {
		f.Tag.RemoveAll(id)
	}
	f.Tag.Attach(frame)
	return nil
}

// Values returns every field's value in Fields order.
func (f *File) Values() ([]string, error) {
	values := make([]string, len(Fields))
	for i, field := range Fields {
		v, err := f.Get(field)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Update opens path, applies edits in order, saves and closes the file.
// The file is closed on every path.
func Update(path string, edits []Edit, openOpts []Option, saveOpts ...SaveOption) (err error) {
	file, err := Open(path, openOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	for _, e := range edits {
		if err := file.Set(e.Field, e.Value); err != nil {
			return fmt.Errorf("set %s: %w", e.Field.Name, err)
		}
	}

	return file.Save(saveOpts...)
}

// OpenMany opens multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := tagstat.OpenMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		i, path := i, path // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
