package config

// Config represents the full Zentask configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// HTTP server settings
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// AI service settings
	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	// Persistent store settings
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Briefing settings
	Briefing BriefingConfig `yaml:"briefing" mapstructure:"briefing"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// AIConfig configures the generative AI service
type AIConfig struct {
	// APIKey is usually supplied via the ZENTASK_API_KEY env variable.
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	TextModel string `yaml:"text_model" mapstructure:"text_model"`
	TTSModel  string `yaml:"tts_model" mapstructure:"tts_model"`
	Voice     string `yaml:"voice" mapstructure:"voice"`
}

// StorageConfig configures the key-value store
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BriefingConfig configures briefing synthesis and playback
type BriefingConfig struct {
	SampleRate int    `yaml:"sample_rate" mapstructure:"sample_rate"`
	OutputDir  string `yaml:"output_dir" mapstructure:"output_dir"`
}
