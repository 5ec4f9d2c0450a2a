// Package media defines the audio file types that flow from discovery to
// the converters.
package media

import (
	"path/filepath"
	"strings"
)

// Kind identifies the format of a discovered audio file. Each kind routes
// to its own converter.
type Kind int

const (
	KindFLAC Kind = iota + 1 // Lossless source, transcoded to MP3.
	KindMP3                  // Already MP3, copied as-is.
)

// String returns the lowercase extension name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFLAC:
		return "flac"
	case KindMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

// Extensions returns the lowercase extensions (with leading dot) of every
// supported kind.
func Extensions() []string { return []string{".flac", ".mp3"} }

// KindOf classifies a file name by its lowercased extension. The second
// result is false for anything that is neither FLAC nor MP3.
func KindOf(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".flac"):
		return KindFLAC, true
	case strings.HasSuffix(lower, ".mp3"):
		return KindMP3, true
	}
	return 0, false
}

// File is one discovered audio file. It is created during the directory
// walk and never mutated afterwards.
type File struct {
	Path string
	Kind Kind
	Size int64 // bytes at discovery time; -1 when the size could not be read
}

// Name returns the base name of the file.
func (f File) Name() string { return filepath.Base(f.Path) }
