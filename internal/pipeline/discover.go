package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/autotranscode/internal/logging"
	"github.com/backmassage/autotranscode/internal/media"
)

// DiscoverOptions controls one discovery walk.
type DiscoverOptions struct {
	Root        string
	MinSizeKB   int   // files strictly smaller than this are treated as fake
	DeleteSmall bool
	DryRun      bool   // report small files that would be deleted, delete nothing
	ExcludeDir  string // absolute directory to prune, e.g. an output dir inside Root
}

// Discovery is the outcome of a walk. Files holds the audio files that passed
// the size filter, in lexical walk order.
type Discovery struct {
	Files        []media.File
	Small        []string // paths of too-small audio files
	Deleted      int
	DeleteFailed int
	Ignored      int // non-audio files
}

// Count returns the number of discovered files of kind k.
func (d *Discovery) Count(k media.Kind) int {
	n := 0
	for _, f := range d.Files {
		if f.Kind == k {
			n++
		}
	}
	return n
}

// Discover walks opts.Root recursively and classifies every regular file.
// Unreadable directories are logged and skipped; only a missing or
// non-directory root is an error.
func Discover(opts DiscoverOptions, log *logging.Logger) (*Discovery, error) {
	fi, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("input folder: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("input folder %s is not a directory", opts.Root)
	}

	exclude := ""
	if opts.ExcludeDir != "" {
		exclude = filepath.Clean(opts.ExcludeDir)
	}
	threshold := int64(opts.MinSizeKB) * 1024

	d := &Discovery{}
	err = filepath.WalkDir(opts.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == opts.Root {
				return err
			}
			log.Warn("Cannot read %s: %v", path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if exclude != "" && path != opts.Root && filepath.Clean(path) == exclude {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := media.KindOf(entry.Name())
		if !ok {
			d.Ignored++
			return nil
		}

		// Stat follows symlinks so a linked file is sized by its target. A
		// stat failure leaves size unknown; the file is not treated as small.
		var size int64 = -1
		if info, err := os.Stat(path); err == nil {
			if info.IsDir() {
				d.Ignored++
				return nil
			}
			size = info.Size()
		}
		if size >= 0 && size < threshold {
			d.Small = append(d.Small, path)
			log.Warn("Found small file (likely fake): %s", path)
			if opts.DeleteSmall {
				deleteSmall(d, path, opts.DryRun, log)
			}
			return nil
		}

		d.Files = append(d.Files, media.File{Path: path, Kind: kind, Size: size})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if n := len(d.Small); n > 0 {
		switch {
		case opts.DeleteSmall && opts.DryRun:
			log.Info("[DRY] Would delete %d small files (likely fake)", n)
		case opts.DeleteSmall:
			log.Info("Deleted %d small files (likely fake)", d.Deleted)
		default:
			log.Info("Skipped %d small files (likely fake)", n)
		}
	}
	return d, nil
}

func deleteSmall(d *Discovery, path string, dryRun bool, log *logging.Logger) {
	if dryRun {
		log.Info("[DRY] Would delete: %s", path)
		return
	}
	if err := os.Remove(path); err != nil {
		d.DeleteFailed++
		log.Error("Failed to delete %s: %v", path, err)
		return
	}
	d.Deleted++
	log.Info("Deleted: %s", path)
}
