// Package naming builds output file paths and resolves collisions.
//
// A collision is an output name that already exists on disk (or was already
// handed to another worker in this run). Collisions are resolved by
// appending "_1", "_2", … before the extension until a free name is found:
//
//	track.mp3 → track_1.mp3 → track_2.mp3
package naming
