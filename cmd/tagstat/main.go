// Command tagstat views or sets the title, artist, album and year stored in
// the ID3v2 tag of audio files.
//
// Usage:
//
//	tagstat [OPTION...] FILE...
//
// Without field options every FILE is printed. With any of -t, -a, -b or -y
// the given fields are written to every FILE and nothing is printed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tagstat"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	edits   []tagstat.Edit
	files   []string
	lenient bool
	version bool

	inPlace       bool
	backup        string
	padding       int
	preserveMtime bool
}

func (c *config) openOptions() []tagstat.Option {
	if c.lenient {
		return []tagstat.Option{tagstat.WithLenientParsing()}
	}
	return nil
}

func (c *config) saveOptions() []tagstat.SaveOption {
	opts := []tagstat.SaveOption{tagstat.WithPadding(c.padding)}
	if c.inPlace {
		opts = append(opts, tagstat.WithInPlaceRewrite())
	}
	if c.backup != "" {
		opts = append(opts, tagstat.WithBackup(c.backup))
	}
	if c.preserveMtime {
		opts = append(opts, tagstat.WithPreserveModTime())
	}
	return opts
}

// run executes the command and returns the process exit code: 0 on
// success, 1 when any file could not be read or written, 2 for usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	cfg, err := parseArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		usage(stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "tagstat: %v\n", err)
		fmt.Fprintln(stderr, "Try 'tagstat -h' for more information.")
		return 2
	}

	if cfg.version {
		fmt.Fprintln(stdout, tagstat.GetVersionInfo())
		return 0
	}
	if len(cfg.files) == 0 {
		fmt.Fprintln(stderr, "tagstat: no input files")
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if len(cfg.edits) > 0 {
		return setFields(cfg, logger, stderr)
	}
	return viewFields(cfg, logger, stdout, stderr)
}

// parseArgs parses flags. Each field is registered under its long and short
// name; flag accepts both -name and --name, with =value or a separate value.
func parseArgs(args []string) (*config, error) {
	cfg := &config{}

	fs := flag.NewFlagSet("tagstat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	values := make(map[string]*string, len(tagstat.Fields))
	for _, field := range tagstat.Fields {
		v := new(string)
		values[field.Name] = v
		fs.StringVar(v, field.Name, "", field.Description)
		fs.StringVar(v, field.Short, "", field.Description)
	}
	fs.BoolVar(&cfg.lenient, "lenient", false, "treat malformed tags as absent")
	fs.BoolVar(&cfg.version, "version", false, "print version information")
	fs.BoolVar(&cfg.inPlace, "in-place", false, "rewrite files in place instead of replacing them")
	fs.StringVar(&cfg.backup, "backup", "", "keep the original file with this suffix appended")
	fs.IntVar(&cfg.padding, "padding", 0, "bytes of padding to reserve after the frames")
	fs.BoolVar(&cfg.preserveMtime, "preserve-mtime", false, "keep the modification time")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.padding < 0 {
		return nil, fmt.Errorf("invalid padding %d", cfg.padding)
	}

	// Record fields in table order so edits are deterministic; a flag given
	// twice keeps its last value.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		if field, ok := tagstat.FieldByName(f.Name); ok {
			set[field.Name] = true
		}
	})
	for _, field := range tagstat.Fields {
		if set[field.Name] {
			cfg.edits = append(cfg.edits, tagstat.Edit{Field: field, Value: *values[field.Name]})
		}
	}

	cfg.files = fs.Args()
	return cfg, nil
}

func setFields(cfg *config, logger *slog.Logger, stderr io.Writer) int {
	code := 0
	for _, path := range cfg.files {
		err := update(path, cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "tagstat: %v\n", err)
			code = 1
		}
	}
	return code
}

func update(path string, cfg *config, logger *slog.Logger) (err error) {
	file, err := tagstat.Open(path, cfg.openOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	logWarnings(logger, file)

	for _, e := range cfg.edits {
		if err := file.Set(e.Field, e.Value); err != nil {
			return fmt.Errorf("%s: set %s: %w", path, e.Field.Name, err)
		}
	}
	if err := file.Save(cfg.saveOptions()...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type viewResult struct {
	values []string
	err    error
}

// viewFields reads every file concurrently and prints the results in
// argument order. A file that fails does not stop the others.
func viewFields(cfg *config, logger *slog.Logger, stdout, stderr io.Writer) int {
	results := make([]viewResult, len(cfg.files))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())
	for i, path := range cfg.files {
		i, path := i, path // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].values, results[i].err = readValues(path, cfg, logger)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Per-file errors are kept in results

	code := 0
	printed := 0
	for i, path := range cfg.files {
		r := results[i]
		if r.err != nil {
			fmt.Fprintf(stderr, "tagstat: %v\n", r.err)
			code = 1
			continue
		}

		if len(cfg.files) > 1 {
			if printed > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "==> %s <==\n", path)
		}
		for j, field := range tagstat.Fields {
			fmt.Fprintf(stdout, "%s: %s\n", field.Label, r.values[j])
		}
		printed++
	}
	return code
}

func readValues(path string, cfg *config, logger *slog.Logger) ([]string, error) {
	file, err := tagstat.Open(path, cfg.openOptions()...)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	logWarnings(logger, file)

	values, err := file.Values()
	if err != nil {
		return nil, err
	}
	return values, nil
}

func logWarnings(logger *slog.Logger, file *tagstat.File) {
	for _, w := range file.Warnings {
		logger.Warn(w.Message, "path", file.Path, "stage", w.Stage, "offset", w.Offset)
	}
}

func usage(w io.Writer) {
	var b strings.Builder
	b.WriteString("Usage: tagstat [OPTION...] FILE...\n")
	b.WriteString("View or set the ID3v2 title, artist, album and year of audio files.\n\n")
	b.WriteString("With no field options, print the fields of each FILE.\n\n")
	b.WriteString("Fields:\n")
	for _, f := range tagstat.Fields {
		fmt.Fprintf(&b, "  -%s, --%s=VALUE\t%s (%s)\n", f.Short, f.Name, f.Description, f.ID)
	}
	b.WriteString("\nOptions:\n")
	b.WriteString("      --lenient\t\ttreat malformed tags as absent\n")
	b.WriteString("      --in-place\t\trewrite files in place instead of replacing them\n")
	b.WriteString("      --backup=SUFFIX\tkeep the original file with SUFFIX appended\n")
	b.WriteString("      --padding=N\t\treserve N bytes of padding after the frames\n")
	b.WriteString("      --preserve-mtime\tkeep the modification time\n")
	b.WriteString("      --version\t\tprint version information\n")
	b.WriteString("  -h, --help\t\tshow this help\n")
	b.WriteString("\nExit status is 0 on success, 1 if any file could not be read or written,\n")
	b.WriteString("and 2 for invalid options.\n")
	fmt.Fprint(w, b.String())
}
