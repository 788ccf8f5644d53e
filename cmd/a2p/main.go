// @title audio2pdf API
// @version 1.0
// @description Transcribes uploaded audio and returns the transcript as a PDF.
// @BasePath /

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g cmd/a2p/main.go -d ../.. -o ../../docs

package main

import (
	"audio2pdf/cmd/a2p/cmd"

	// Import providers to register them
	_ "audio2pdf/internal/app/api/openai/whisper"
	_ "audio2pdf/internal/app/api/whisper_server"
)

func main() {
	cmd.Execute()
}
