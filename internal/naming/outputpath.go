package naming

import (
	"path/filepath"
	"strings"
)

// MP3Name returns the transcode destination for input: the input's base
// name with its extension replaced by ".mp3", inside outputDir.
func MP3Name(input, outputDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".mp3")
}

// CopyName returns the copy destination for input: the unchanged base name
// inside outputDir.
func CopyName(input, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(input))
}
