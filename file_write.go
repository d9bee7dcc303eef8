package tagstat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/tagstat/internal/id3v2"
	"github.com/simonhull/tagstat/internal/types"
)

// Save writes the modified tag back to the file.
//
// The tag is encoded first; if it does not fit (*TagTooLargeError) nothing
// on disk is touched. By default the new tag and the unchanged audio are
// written to a temporary file in the same directory, synced, and renamed over
// the original, so the original stays intact until the rename. With
// WithInPlaceRewrite the original file is rewritten instead.
//
// After a successful Save the File refers to the new content and can be
// edited and saved again.
//
//	err := file.Save(
//	    tagstat.WithBackup(".bak"),
//	    tagstat.WithValidation(),
//	)
func (f *File) Save(opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	if f.handle == nil {
		return fmt.Errorf("%s: file is closed", f.Path)
	}

	tagBytes, err := f.Tag.Encode(options.padding)
	if err != nil {
		return fmt.Errorf("encode tag: %w", err)
	}

	newSize := int64(len(tagBytes)) + f.audioSize()

	// Get original file's mod time if we need to preserve it
	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := f.handle.Stat(); err == nil {
			origInfo = info
		}
	}

	if options.inPlace {
		err = f.rewriteInPlace(tagBytes, options)
	} else {
		err = f.replaceFile(tagBytes, options)
	}
	if err != nil {
		return err
	}

	f.Size = newSize
	f.Tag.Size = int64(len(tagBytes))
	f.Tag.Header.Flags = 0
	f.Tag.Header.Size = uint32(len(tagBytes) - id3v2.HeaderSize)

	if origInfo != nil {
		_ = os.Chtimes(f.Path, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := f.validateWrittenFile(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// audioSize is the number of bytes after the tag region.
func (f *File) audioSize() int64 {
	return max(f.Size-f.Tag.Size, 0)
}

// audioReader returns a reader over the audio region of the current file.
func (f *File) audioReader() io.Reader {
	return io.NewSectionReader(f.handle, f.Tag.Size, f.audioSize())
}

// replaceFile writes tag and audio to a temporary file and renames it over
// the original. Symlinks are resolved so the link itself survives.
func (f *File) replaceFile(tagBytes []byte, options *saveOptions) error { //nolint:gocyclo // Atomic file operations require sequential steps
	target, err := filepath.EvalSymlinks(f.Path)
	if err != nil {
		return &types.FileUnwritableError{Path: f.Path, Err: err}
	}
	info, err := os.Stat(target)
	if err != nil {
		return &types.FileUnwritableError{Path: f.Path, Err: err}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(target), ".tagstat-*.tmp")
	if err != nil {
		return &types.FileUnwritableError{Path: f.Path, Err: err}
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tempFile.Write(tagBytes); err != nil {
		return fmt.Errorf("write tag: %w", err)
	}
	if n, err := io.Copy(tempFile, f.audioReader()); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	} else if n != f.audioSize() {
		return fmt.Errorf("copy audio: copied %d of %d bytes", n, f.audioSize())
	}

	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// The original is renamed to the backup path; the open handle follows it.
	if options.backupSuffix != "" {
		if err := os.Rename(target, target+options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tempPath, target); err != nil {
		return &types.FileUnwritableError{Path: f.Path, Err: fmt.Errorf("rename temp to output: %w", err)}
	}
	success = true

	// Re-point at the new file. The old handle still refers to the
	// replaced content.
	fh, err := os.OpenFile(target, os.O_RDWR, 0)
	if err != nil {
		return &types.FileUnwritableError{Path: f.Path, Err: err}
	}
	_ = f.handle.Close() //nolint:errcheck // Replaced file, nothing left to flush
	f.handle = fh

	return nil
}

// rewriteInPlace reads the audio into memory and rewrites the open file
// from offset 0.
func (f *File) rewriteInPlace(tagBytes []byte, options *saveOptions) error {
	audio := make([]byte, f.audioSize())
	if _, err := io.ReadFull(f.audioReader(), audio); err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	if options.backupSuffix != "" {
		if err := f.copyTo(f.Path + options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if _, err := f.handle.WriteAt(tagBytes, 0); err != nil {
		return fmt.Errorf("write tag: %w", err)
	}
	if _, err := f.handle.WriteAt(audio, int64(len(tagBytes))); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := f.handle.Truncate(int64(len(tagBytes) + len(audio))); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if err := f.handle.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	return nil
}

// copyTo copies the current file content to path, keeping permission bits.
func (f *File) copyTo(path string) (err error) {
	info, err := f.handle.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, io.NewSectionReader(f.handle, 0, f.Size)); err != nil {
		return err
	}
	return out.Sync()
}

// validateWrittenFile re-opens the file and compares every field.
func (f *File) validateWrittenFile() error {
	written, err := Open(f.Path)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	var errs []error
	for _, field := range Fields {
		want, err := f.Get(field)
		if err != nil {
			return err
		}
		got, err := written.Get(field)
		if err != nil {
			return err
		}
		if got != want {
			errs = append(errs, fmt.Errorf("%s mismatch: got %q, want %q", field.Name, got, want))
		}
	}
	if written.Size != f.Size {
		errs = append(errs, fmt.Errorf("size mismatch: got %d, want %d", written.Size, f.Size))
	}

	return errors.Join(errs...)
}
