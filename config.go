package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-prompt/datalink"
	"github.com/goliatone/go-prompt/dialect"
	"github.com/goliatone/go-prompt/dispatcher"
	"github.com/goliatone/go-prompt/stream"
)

// Config sizes every buffer the prompt owns. All limits are fixed at
// construction.
type Config struct {
	// MessageLength is the longest accepted incoming line.
	MessageLength int `yaml:"message_length" toml:"message_length"`
	// PoolSize is the number of message buffers.
	PoolSize int `yaml:"pool_size" toml:"pool_size"`
	// BufferSize is the capacity of each stream buffer. The incoming buffer
	// must hold one full line. Replies share the same bound on the outgoing
	// side; a reply longer than the free space is pushed out in chunks.
	BufferSize int `yaml:"buffer_size" toml:"buffer_size"`
	// DirectorySize is the maximum number of modules.
	DirectorySize int `yaml:"directory_size" toml:"directory_size"`
	// RateLimit is the sustained invocations per second; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" toml:"rate_burst"`
	// TickIntervalMS is the update period used by runners of the prompt.
	TickIntervalMS int `yaml:"tick_interval_ms" toml:"tick_interval_ms"`
}

func DefaultConfig() Config {
	return Config{
		MessageLength:  datalink.DefaultMessageLength,
		PoolSize:       datalink.DefaultPoolSize,
		BufferSize:     stream.DefaultBufferSize,
		DirectorySize:  dispatcher.DefaultDirectorySize,
		RateLimit:      0,
		RateBurst:      1,
		TickIntervalMS: 10,
	}
}

// TickInterval returns TickIntervalMS as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Validate checks that the sizes are usable together. Only the incoming line
// bounds BufferSize, since outgoing replies of any length are streamed.
func (c Config) Validate() error {
	var problems []string
	if c.MessageLength <= 0 {
		problems = append(problems, "message_length must be positive")
	}
	if c.PoolSize <= 0 {
		problems = append(problems, "pool_size must be positive")
	}
	if c.DirectorySize <= 0 {
		problems = append(problems, "directory_size must be positive")
	}
	if c.BufferSize < c.MessageLength+len(dialect.ReplyTerminator) {
		problems = append(problems, "buffer_size must hold a full message and its terminator")
	}
	if c.RateLimit < 0 {
		problems = append(problems, "rate_limit cannot be negative")
	}
	if c.TickIntervalMS < 0 {
		problems = append(problems, "tick_interval_ms cannot be negative")
	}
	if len(problems) == 0 {
		return nil
	}
	return ErrInvalidConfig.Clone().WithMetadata(map[string]any{
		"problems": problems,
	})
}

// LoadConfig reads a YAML or TOML file over DefaultConfig. The format is
// chosen by extension; keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, errors.CategoryExternal, "read config file").
			WithTextCode(CodeConfigRead).
			WithMetadata(map[string]any{"path": path})
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, ErrUnsupportedConfig.Clone().WithMetadata(map[string]any{
			"path":      path,
			"extension": ext,
		})
	}
	if err != nil {
		return cfg, errors.Wrap(err, errors.CategoryBadInput, "decode config file").
			WithTextCode(CodeConfigDecode).
			WithMetadata(map[string]any{"path": path})
	}

	return cfg, cfg.Validate()
}
