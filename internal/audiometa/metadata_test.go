package audiometa

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/autotranscode/internal/media"
)

// streamInfoBody returns a 34-byte STREAMINFO body for the given params.
func streamInfoBody(sampleRate, channels, bits int, totalSamples int64) []byte {
	d := make([]byte, 34)
	d[0], d[1] = 0x10, 0x00 // min block size 4096
	d[2], d[3] = 0x10, 0x00 // max block size 4096
	d[10] = byte(sampleRate >> 12)
	d[11] = byte(sampleRate >> 4)
	d[12] = byte(sampleRate<<4) | byte((channels-1)<<1) | byte((bits-1)>>4)
	d[13] = byte((bits-1)<<4) | byte(totalSamples>>32)&0x0F
	d[14] = byte(totalSamples >> 24)
	d[15] = byte(totalSamples >> 16)
	d[16] = byte(totalSamples >> 8)
	d[17] = byte(totalSamples)
	return d
}

// writeFLAC writes a metadata-only FLAC stream: magic plus one STREAMINFO
// block flagged as last.
func writeFLAC(t *testing.T, path string, body []byte) {
	t.Helper()
	data := []byte("fLaC")
	data = append(data, 0x80, 0x00, 0x00, byte(len(body)))
	data = append(data, body...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeMP3 writes n MPEG-1 Layer III frames (128 kbps, 44.1 kHz, no CRC)
// with silent payloads.
func writeMP3(t *testing.T, path string, n int) {
	t.Helper()
	const frameLen = 417 // 144 * 128000 / 44100
	var data []byte
	for i := 0; i < n; i++ {
		frame := make([]byte, frameLen)
		frame[0], frame[1], frame[2], frame[3] = 0xFF, 0xFB, 0x90, 0x00
		data = append(data, frame...)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeStreamInfo(t *testing.T) {
	body := streamInfoBody(44100, 2, 16, 44100*225)
	si, err := decodeStreamInfo(body)
	if err != nil {
		t.Fatalf("decodeStreamInfo: %v", err)
	}
	if si.SampleRate != 44100 || si.Channels != 2 || si.BitsPerSample != 16 {
		t.Errorf("got %+v", si)
	}
	if si.Duration() != 225*time.Second {
		t.Errorf("Duration = %v, want 3m45s", si.Duration())
	}
}

func TestDecodeStreamInfo_HiRes(t *testing.T) {
	si, err := decodeStreamInfo(streamInfoBody(96000, 6, 24, 1<<33))
	if err != nil {
		t.Fatal(err)
	}
	if si.SampleRate != 96000 || si.Channels != 6 || si.BitsPerSample != 24 || si.TotalSamples != 1<<33 {
		t.Errorf("got %+v", si)
	}
}

func TestDecodeStreamInfo_Short(t *testing.T) {
	if _, err := decodeStreamInfo(make([]byte, 10)); !errors.Is(err, ErrNoStreamInfo) {
		t.Errorf("err = %v, want ErrNoStreamInfo", err)
	}
}

func TestReadStreamInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	writeFLAC(t, path, streamInfoBody(48000, 2, 24, 48000*10))

	si, err := ReadStreamInfo(path)
	if err != nil {
		t.Fatalf("ReadStreamInfo: %v", err)
	}
	if si.SampleRate != 48000 || si.BitsPerSample != 24 || si.Duration() != 10*time.Second {
		t.Errorf("got %+v", si)
	}
}

func TestReadStreamInfo_NotFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.flac")
	os.WriteFile(path, []byte("not really a flac"), 0o644)
	if _, err := ReadStreamInfo(path); err == nil {
		t.Error("expected error for non-FLAC data")
	}
}

func TestDescribe_FLACFallsBackToStreamInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	writeFLAC(t, path, streamInfoBody(44100, 2, 16, 44100*61))

	info := Describe(path, media.KindFLAC)
	if info.SampleRate != 44100 || info.Duration != 61*time.Second {
		t.Errorf("got %+v", info)
	}
	s := info.String()
	if !strings.Contains(s, "44.1 kHz 16-bit 2ch") || !strings.Contains(s, "1:01") {
		t.Errorf("String() = %q", s)
	}
}

func TestDescribe_Unreadable(t *testing.T) {
	info := Describe("/no/such/file.flac", media.KindFLAC)
	if info != (Info{}) {
		t.Errorf("expected empty info, got %+v", info)
	}
	if info.String() != "no metadata" {
		t.Errorf("String() = %q", info.String())
	}
}

func TestInfoString_Tags(t *testing.T) {
	info := Info{Title: "Intro", Artist: "Band", Album: "Debut"}
	if got := info.String(); got != "Band - Intro [Debut]" {
		t.Errorf("String() = %q", got)
	}
}

func TestMP3Duration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.mp3")
	writeMP3(t, path, 8)

	d, frames, err := MP3Duration(path)
	if err != nil {
		t.Fatalf("MP3Duration: %v", err)
	}
	if frames < 1 || d <= 0 {
		t.Errorf("frames=%d duration=%v", frames, d)
	}
}

func TestMP3Duration_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	os.WriteFile(path, []byte("not really an mp3"), 0o644)
	if _, _, err := MP3Duration(path); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestMP3Duration_Missing(t *testing.T) {
	if _, _, err := MP3Duration("/no/such/file.mp3"); err == nil {
		t.Error("expected error for missing file")
	}
}
