package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Sample transcripts
const (
	HelloWorldTranscript = "hello world"
	MultiLineTranscript  = "First paragraph.\n\n   \nSecond paragraph.\n  indented third\n"
	LongTranscript       = "Welcome to our podcast. Today we're discussing the latest developments in artificial intelligence and machine learning. Our guest is a leading researcher in the field of neural networks, and we will be talking about how large models are trained, evaluated and deployed in production systems around the world."
)

// WAVBytes returns a mono 16-bit PCM WAV holding a sine tone.
func WAVBytes(sampleRate int, durationMs int, frequency float64) []byte {
	numSamples := sampleRate * durationMs / 1000
	dataSize := uint32(numSamples * 2)

	buf := bytes.NewBuffer(make([]byte, 0, 44+numSamples*2))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)

	for i := 0; i < numSamples; i++ {
		v := math.Sin(2 * math.Pi * frequency * float64(i) / float64(sampleRate))
		binary.Write(buf, binary.LittleEndian, int16(v*math.MaxInt16/4))
	}
	return buf.Bytes()
}

// MP3Bytes returns an ID3v2 tag followed by a few silent MPEG-1 Layer III frames.
// Enough for content sniffing; not meant to be decodable audio.
func MP3Bytes() []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
	for i := 0; i < 4; i++ {
		buf.Write(frame)
	}
	return buf.Bytes()
}

// WriteFixture writes data to name inside a fresh temp dir and returns the path.
func WriteFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// HelloWAV writes a short hello.wav fixture.
func HelloWAV(t *testing.T) string {
	t.Helper()
	return WriteFixture(t, "hello.wav", WAVBytes(16000, 250, 440))
}
