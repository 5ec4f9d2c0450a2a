package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/autotranscode/internal/media"
	"github.com/backmassage/autotranscode/internal/naming"
)

// Copier copies MP3 files verbatim, keeping permissions and modification
// time.
type Copier struct {
	Namer  *naming.Namer
	Log    Logger
	DryRun bool
}

// Convert copies f to a collision-free name inside outputDir.
func (c *Copier) Convert(ctx context.Context, f media.File, outputDir string) Result {
	output := c.Namer.Claim(naming.CopyName(f.Path, outputDir))

	if c.DryRun {
		c.Log.Success("[DRY] Would copy MP3 file: %s -> %s", f.Path, output)
		return Result{File: f, Output: output, OK: true}
	}

	if err := ctx.Err(); err != nil {
		c.Namer.Release(output)
		return failed(f, output, err)
	}

	size, err := copyFile(f.Path, output)
	if err != nil {
		c.Log.Error("Exception while copying %s: %v", f.Path, err)
		os.Remove(output)
		c.Namer.Release(output)
		return failed(f, output, err)
	}

	c.Log.Success("Copied MP3 file: %s -> %s", f.Path, output)
	return Result{File: f, Output: output, OK: true, OutputSize: size}
}

// copyFile duplicates src's content to dst, then applies src's permission
// bits and modification time. It returns the number of bytes written.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dst, err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("chmod %s: %w", dst, err)
	}
	// Access time is not portable to read; the modification time stands in.
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, fmt.Errorf("chtimes %s: %w", dst, err)
	}
	return n, nil
}
