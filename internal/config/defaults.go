package config

import (
	"os"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Addr: ":8080",
		},
		AI: AIConfig{
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta",
			TextModel: "gemini-3-flash-preview",
			TTSModel:  "gemini-2.5-flash-preview-tts",
			Voice:     "Kore",
		},
		Storage: StorageConfig{
			Path: "~/.zentask/zentask.db",
		},
		Briefing: BriefingConfig{
			SampleRate: 24000,
			OutputDir:  "~/.zentask/briefings",
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# Zentask Configuration
version: "1"

server:
  addr: ":8080"

# AI service. The API key is read from the ZENTASK_API_KEY env variable;
# set it here only for local experiments.
ai:
  endpoint: https://generativelanguage.googleapis.com/v1beta
  text_model: gemini-3-flash-preview
  tts_model: gemini-2.5-flash-preview-tts
  voice: Kore

storage:
  path: ~/.zentask/zentask.db

briefing:
  sample_rate: 24000
  output_dir: ~/.zentask/briefings
`
	return os.WriteFile(path, []byte(content), 0644)
}
