package tagstat

// SaveOption configures behavior when saving files.
//
// Example:
//
//	err := file.Save(
//	    tagstat.WithBackup(".bak"),
//	    tagstat.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
	padding         int    // Zero bytes appended after the last frame
	inPlace         bool   // Rewrite the original file instead of replacing it
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		backupSuffix:    "",
		validate:        false,
		preserveModTime: false,
		padding:         0,
		inPlace:         false,
	}
}

// WithBackup keeps a copy of the original file before saving.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") keeps "song.mp3.bak" next to
// the rewritten "song.mp3". An existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing and checks that every
// field reads back as it was set.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// By default, saving updates the file's modification time to the current
// time. Use this when retagging should not look like a content change.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithPadding reserves n zero bytes after the last frame so later edits can
// grow the tag. Negative values are treated as zero.
func WithPadding(n int) SaveOption {
	return func(o *saveOptions) {
		o.padding = max(n, 0)
	}
}

// WithInPlaceRewrite rewrites the original file instead of replacing it.
//
// The audio region is read into memory, then the new tag and the audio are
// written from offset 0 and the file is truncated. The file keeps its inode
// and hard links, but an interrupted write leaves it damaged. The
// default strategy writes a temporary file and renames it over the original.
func WithInPlaceRewrite() SaveOption {
	return func(o *saveOptions) {
		o.inPlace = true
	}
}
