package api

import "strings"

// Kind classifies the outcome of a single transcription call.
type Kind string

const (
	KindSuccess      Kind = "success"
	KindNoSpeech     Kind = "no_speech"
	KindServiceError Kind = "service_error"
)

// NoSpeechText is the text rendered for audio in which the service found no speech.
const NoSpeechText = "Error: Could not understand the audio."

// Result is the tagged outcome of a transcription.
type Result struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Message  string `json:"message,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Success builds a successful result.
func Success(text string) *Result {
	return &Result{Kind: KindSuccess, Text: text}
}

// NoSpeech builds a result for audio without recognizable speech.
func NoSpeech() *Result {
	return &Result{Kind: KindNoSpeech, Message: "could not understand the audio"}
}

// ServiceError builds a result for a failed service call, keeping the service's message.
func ServiceError(message string) *Result {
	return &Result{Kind: KindServiceError, Message: message}
}

// FromText classifies raw service output: blank text means no speech was recognized.
func FromText(text string) *Result {
	if strings.TrimSpace(text) == "" {
		return NoSpeech()
	}
	return Success(text)
}

// OK reports whether the service recognized speech.
func (r *Result) OK() bool {
	return r != nil && r.Kind == KindSuccess
}

// String renders the result as transcript text. Failures render as "Error: ..." lines,
// which is what ends up in the document when failures are not fatal.
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case KindSuccess:
		return r.Text
	case KindNoSpeech:
		return NoSpeechText
	default:
		return "Error: " + r.Message
	}
}
