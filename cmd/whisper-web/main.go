package main

import (
	"whisper-web/cmd/whisper-web/cmd"

	// Import providers to register them
	_ "whisper-web/internal/app/api/gemini"
	_ "whisper-web/internal/app/api/openai/whisper"
)

func main() {
	cmd.Execute()
}
