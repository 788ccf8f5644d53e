package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
//
// Service-side outcomes (recognized text, no speech, service failure) are reported
// through the returned Result. The error return is reserved for local failures such
// as an unreadable input file.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (*Result, error)
}
