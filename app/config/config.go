package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Neo4j holds the connection settings for the plan store.
type Neo4j struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// OpenAI holds the settings for plan generation and speech synthesis.
type OpenAI struct {
	APIKey   string   `yaml:"api_key"`
	BaseURL  string   `yaml:"base_url"`
	Models   []string `yaml:"models"`
	TTSModel string   `yaml:"tts_model"`
	Voice    string   `yaml:"voice"`
}

// Anthropic holds the settings for the fallback generator. It is disabled
// when APIKey is empty.
type Anthropic struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Audio selects where synthesized clips are archived. Both empty disables
// archiving.
type Audio struct {
	Dir    string `yaml:"dir"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Log selects the log format and level.
type Log struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config is the full application configuration.
type Config struct {
	Addr      string    `yaml:"addr"`
	Neo4j     Neo4j     `yaml:"neo4j"`
	OpenAI    OpenAI    `yaml:"openai"`
	Anthropic Anthropic `yaml:"anthropic"`
	Audio     Audio     `yaml:"audio"`
	Log       Log       `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr: "0.0.0.0:8080",
		Neo4j: Neo4j{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		OpenAI: OpenAI{
			Models:   []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"},
			TTSModel: "tts-1",
			Voice:    "alloy",
		},
		Anthropic: Anthropic{
			Model: "claude-3-5-haiku-latest",
		},
		Log: Log{
			Format: "json",
			Level:  "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return cfg, nil
}

// Validate checks that the settings needed to serve are present.
func (c Config) Validate() error {
	if c.Addr == "" {
		return goerr.New("addr is required")
	}
	if c.Neo4j.URI == "" {
		return goerr.New("neo4j uri is required")
	}
	if c.OpenAI.APIKey == "" && c.Anthropic.APIKey == "" {
		return goerr.New("an OpenAI or Anthropic API key is required")
	}
	if c.OpenAI.APIKey != "" && len(c.OpenAI.Models) == 0 {
		return goerr.New("at least one OpenAI model is required")
	}
	if c.Audio.Dir != "" && c.Audio.Bucket != "" {
		return goerr.New("audio dir and bucket are mutually exclusive")
	}
	return nil
}
