// Package ffmpeg builds and runs the external encoder that turns one FLAC
// file into a constant-bitrate MP3 via libmp3lame.
//
// The encoder is reached through the [Encoder] interface so converters can
// be exercised with a fake in tests. The real implementation ([FFmpeg])
// captures stderr for diagnostics; [Classify] turns that stderr into a
// short cause for the failure log.
package ffmpeg
