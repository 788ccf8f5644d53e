package download

import (
	"encoding/base64"
	"os"
	"strings"

	apperrors "audio2pdf/internal/app/errors"
)

// FileName is the name browsers save the document under, whatever the source file was called.
const FileName = "transcription.pdf"

const (
	hrefPrefix = "<a href='data:application/octet-stream;base64,"
	hrefSuffix = "' download='" + FileName + "'>Download PDF</a>"
)

// Link reads the file at path and returns it as an HTML download anchor.
func Link(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Mark(err, apperrors.ErrFileNotFound)
		}
		return "", apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}
	return Encode(data), nil
}

// Encode wraps data in a data-URI download anchor.
func Encode(data []byte) string {
	return hrefPrefix + base64.StdEncoding.EncodeToString(data) + hrefSuffix
}

// Decode extracts the payload from an anchor produced by Encode.
func Decode(anchor string) ([]byte, error) {
	if !strings.HasPrefix(anchor, hrefPrefix) || !strings.HasSuffix(anchor, hrefSuffix) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidLink, "not a data-URI download anchor")
	}
	payload := strings.TrimSuffix(strings.TrimPrefix(anchor, hrefPrefix), hrefSuffix)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.Mark(err, apperrors.ErrInvalidLink)
	}
	return data, nil
}
