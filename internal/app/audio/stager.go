package audio

import (
	"io"
	"os"
	"path/filepath"

	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/util/files"
)

// Stager writes uploaded audio under a scratch root so it can be handed to a
// transcriber by path.
type Stager struct {
	root string
}

func NewStager(root string) *Stager {
	return &Stager{root: root}
}

// Root returns the scratch root.
func (s *Stager) Root() string {
	return s.root
}

// Dir resolves a scratch subdirectory. An empty dir is the root itself.
func (s *Stager) Dir(dir string) string {
	if dir == "" {
		return s.root
	}
	return filepath.Join(s.root, dir)
}

// Stage copies r verbatim to <root>/<dir>/<base(filename)>, creating the
// directory when needed, and returns the written path.
func (s *Stager) Stage(dir, filename string, r io.Reader) (string, error) {
	name := files.SafeBaseName(filename)
	if name == "" {
		return "", apperrors.InvalidField("filename", "empty after removing directory components")
	}

	target := s.Dir(dir)
	if err := files.EnsureDir(target); err != nil {
		return "", apperrors.Mark(err, apperrors.ErrDirectoryFailed)
	}

	path := filepath.Join(target, name)
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.Mark(err, apperrors.ErrFileWriteFailed)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", apperrors.Mark(err, apperrors.ErrFileWriteFailed)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Mark(err, apperrors.ErrFileWriteFailed)
	}
	return path, nil
}
