package main

import (
	"fmt"
	"os"

	"github.com/simonhull/tagstat/internal/id3v2"
)

// Prints every frame of a file's ID3v2 tag, useful for checking what was
// actually written.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: frame-dump <file.mp3>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	tag, err := id3v2.Decode(f, stat.Size(), f.Name())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dumpTag(tag)
}

func dumpTag(tag *id3v2.Tag) {
	if !tag.Present() {
		fmt.Println("no ID3v2 tag")
		return
	}

	h := tag.Header
	fmt.Printf("ID3v%s (size: %d, flags: 0x%02x, total: %d)\n", h.Version(), h.Size, byte(h.Flags), tag.Size)
	if h.Flags.Unsynchronisation() {
		fmt.Println("  unsynchronised")
	}
	if h.Flags.ExtendedHeader() {
		fmt.Println("  extended header")
	}
	if h.Flags.Footer() {
		fmt.Println("  footer")
	}

	for _, frame := range tag.Frames {
		fmt.Printf("  %s\n", frame)
		if !id3v2.IsTextID(frame.ID) {
			continue
		}
		text, err := frame.Text(h.Major)
		if err != nil {
			fmt.Printf("    ! %v\n", err)
			continue
		}
		fmt.Printf("    %q\n", text)
	}
}
