// Package audiometa reads descriptive metadata from audio files: tags via
// dhowden/tag, FLAC STREAMINFO via go-flac, and MP3 frame timing via
// tcolgate/mp3. Everything here is best-effort and used for logging and
// output verification only.
package audiometa

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-flac/go-flac"
	"github.com/tcolgate/mp3"

	"github.com/backmassage/autotranscode/internal/display"
	"github.com/backmassage/autotranscode/internal/media"
)

// ErrNoFrames is returned by [MP3Duration] when no MP3 frame decodes.
var ErrNoFrames = errors.New("no decodable MP3 frames")

// ErrNoStreamInfo is returned by [ReadStreamInfo] when the first metadata
// block is missing or too short to be a STREAMINFO block.
var ErrNoStreamInfo = errors.New("missing FLAC STREAMINFO block")

// Info is a best-effort description of one audio file. Zero fields mean
// "unknown".
type Info struct {
	Title         string
	Artist        string
	Album         string
	SampleRate    int
	Channels      int
	BitsPerSample int
	Duration      time.Duration
}

// String renders the known fields, e.g.
// "Artist - Title [Album] | 44.1 kHz 16-bit 2ch | 3:45".
func (i Info) String() string {
	var parts []string

	name := i.Title
	if i.Artist != "" && name != "" {
		name = i.Artist + " - " + name
	}
	if i.Album != "" && name != "" {
		name += " [" + i.Album + "]"
	}
	if name != "" {
		parts = append(parts, name)
	}

	if i.SampleRate > 0 {
		stream := fmt.Sprintf("%.1f kHz", float64(i.SampleRate)/1000)
		if i.BitsPerSample > 0 {
			stream += fmt.Sprintf(" %d-bit", i.BitsPerSample)
		}
		if i.Channels > 0 {
			stream += fmt.Sprintf(" %dch", i.Channels)
		}
		parts = append(parts, stream)
	}

	if i.Duration > 0 {
		parts = append(parts, display.FormatDuration(i.Duration))
	}

	if len(parts) == 0 {
		return "no metadata"
	}
	return strings.Join(parts, " | ")
}

// Describe gathers tags and, for FLAC, stream parameters. Read errors are
// swallowed; the returned Info just has fewer fields.
func Describe(path string, kind media.Kind) Info {
	var info Info
	info.Title, info.Artist, info.Album = readTags(path)

	if kind == media.KindFLAC {
		if si, err := ReadStreamInfo(path); err == nil {
			info.SampleRate = si.SampleRate
			info.Channels = si.Channels
			info.BitsPerSample = si.BitsPerSample
			info.Duration = si.Duration()
		}
	}
	return info
}

func readTags(path string) (title, artist, album string) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", ""
	}
	return strings.TrimSpace(meta.Title()), strings.TrimSpace(meta.Artist()), strings.TrimSpace(meta.Album())
}

// StreamInfo holds the decoded fields of a FLAC STREAMINFO block.
type StreamInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  int64
}

// Duration returns TotalSamples/SampleRate, or 0 when either is unknown.
func (s StreamInfo) Duration() time.Duration {
	if s.SampleRate <= 0 || s.TotalSamples <= 0 {
		return 0
	}
	return time.Duration(s.TotalSamples) * time.Second / time.Duration(s.SampleRate)
}

// ReadStreamInfo parses only the metadata blocks of the FLAC file at path
// and decodes its STREAMINFO.
func ReadStreamInfo(path string) (StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return StreamInfo{}, err
	}
	defer f.Close()

	file, err := flac.ParseMetadata(f)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("parse flac %s: %w", path, err)
	}
	if len(file.Meta) == 0 || file.Meta[0].Type != flac.StreamInfo {
		return StreamInfo{}, ErrNoStreamInfo
	}
	return decodeStreamInfo(file.Meta[0].Data)
}

// decodeStreamInfo unpacks the big-endian bit fields of a STREAMINFO body:
// sample rate (20 bits), channels-1 (3), bits per sample-1 (5), total
// samples (36), starting at byte 10.
func decodeStreamInfo(d []byte) (StreamInfo, error) {
	if len(d) < 18 {
		return StreamInfo{}, ErrNoStreamInfo
	}
	si := StreamInfo{
		SampleRate:    int(d[10])<<12 | int(d[11])<<4 | int(d[12])>>4,
		Channels:      int((d[12]>>1)&0x07) + 1,
		BitsPerSample: int((d[12]&0x01)<<4|d[13]>>4) + 1,
		TotalSamples: int64(d[13]&0x0F)<<32 | int64(d[14])<<24 | int64(d[15])<<16 |
			int64(d[16])<<8 | int64(d[17]),
	}
	return si, nil
}

// MP3Duration walks every MP3 frame in path and returns the summed duration
// and the number of frames decoded. A file with no decodable frame yields
// [ErrNoFrames].
func MP3Duration(path string) (time.Duration, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total time.Duration
	frames := 0

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if frames > 0 {
				break
			}
			return 0, 0, fmt.Errorf("decode mp3 %s: %w", path, err)
		}
		total += frame.Duration()
		frames++
	}

	if frames == 0 {
		return 0, 0, ErrNoFrames
	}
	return total, frames, nil
}
