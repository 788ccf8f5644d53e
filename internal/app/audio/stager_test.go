package audio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio2pdf/internal/app/audio"
	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/testutil"
)

func TestStager_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "wav", filename: "hello.wav", data: testutil.WAVBytes(16000, 100, 440)},
		{name: "mp3", filename: "clip.mp3", data: testutil.MP3Bytes()},
		{name: "uppercase extension", filename: "LOUD.WAV", data: testutil.WAVBytes(8000, 50, 220)},
		{name: "empty payload", filename: "empty.wav", data: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stager := audio.NewStager(t.TempDir())

			path, err := stager.Stage("", tt.filename, bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(stager.Root(), tt.filename), path)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestStager_CreatesDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "temp_audio")
	stager := audio.NewStager(root)

	path, err := stager.Stage("run-1", "a.wav", strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "run-1", "a.wav"), path)
	assert.DirExists(t, filepath.Join(root, "run-1"))

	// staging again into the same directory is fine and overwrites
	path, err = stager.Stage("run-1", "a.wav", strings.NewReader("xyz"))
	require.NoError(t, err)
	got, _ := os.ReadFile(path)
	assert.Equal(t, "xyz", string(got))
}

func TestStager_FilenameCannotEscape(t *testing.T) {
	root := t.TempDir()
	stager := audio.NewStager(filepath.Join(root, "scratch"))

	path, err := stager.Stage("", "../../outside.wav", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "scratch", "outside.wav"), path)
	assert.NoFileExists(t, filepath.Join(root, "outside.wav"))

	_, err = stager.Stage("", "..", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestStager_DirectoryFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

	stager := audio.NewStager(blocker)
	_, err := stager.Stage("", "a.wav", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDirectoryFailed)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected audio.Format
		wantErr  bool
	}{
		{filename: "a.wav", expected: audio.FormatWAV},
		{filename: "a.mp3", expected: audio.FormatMP3},
		{filename: "A.Mp3", expected: audio.FormatMP3},
		{filename: "dir/b.WAV", expected: audio.FormatWAV},
		{filename: "a.flac", wantErr: true},
		{filename: "a.wav.txt", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := audio.ParseFormat(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				assert.True(t, apperrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestNewUpload(t *testing.T) {
	upload, err := audio.NewUpload("talk.mp3", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, audio.FormatMP3, upload.Format)
	assert.Equal(t, "talk.mp3", upload.Filename)

	_, err = audio.NewUpload("talk.ogg", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestSniff(t *testing.T) {
	wav := testutil.WriteFixture(t, "a.wav", testutil.WAVBytes(16000, 50, 440))
	mp3 := testutil.WriteFixture(t, "a.mp3", testutil.MP3Bytes())

	assert.Equal(t, "audio/wav", audio.Sniff(wav))
	assert.Equal(t, "audio/mpeg", audio.Sniff(mp3))
	assert.Equal(t, "unknown", audio.Sniff(filepath.Join(t.TempDir(), "missing.wav")))
}
