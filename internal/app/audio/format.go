package audio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "audio2pdf/internal/app/errors"
)

// Format is one of the accepted upload containers.
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// SupportedExtensions lists the extensions accepted by the upload form.
var SupportedExtensions = []string{".wav", ".mp3"}

// Upload is an audio blob received from a client.
type Upload struct {
	Filename string
	Format   Format
	Data     io.Reader
}

// ParseFormat derives the format from the filename extension, case-insensitively.
func ParseFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	default:
		return "", apperrors.Wrapf(apperrors.ErrUnsupportedFormat, "%q: only wav and mp3 are accepted", filepath.Base(filename))
	}
}

// NewUpload validates the filename and builds an Upload.
func NewUpload(filename string, data io.Reader) (Upload, error) {
	format, err := ParseFormat(filename)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: filename, Format: format, Data: data}, nil
}

// Sniff reports the content type detected from the file's leading bytes.
// It is informational only; nothing is rejected on its result.
func Sniff(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "unknown"
	}
	return mtype.String()
}
