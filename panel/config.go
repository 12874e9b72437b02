package panel

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportPeriph  = "periph"
	TransportGobot   = "gobot"
	TransportMCP2221 = "mcp2221"
)

// Config covers the few knobs this bridge has: which bus, which address,
// how often to poll, and which transport implementation to use.
type Config struct {
	Device         string `yaml:"device"`
	Address        byte   `yaml:"address"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	Transport      string `yaml:"transport"`
}

func DefaultConfig() Config {
	return Config{
		Device:         "1",
		Address:        DefaultAddress,
		PollIntervalMs: 50,
		Transport:      TransportPeriph,
	}
}

// LoadConfig returns defaults when path is empty; otherwise the file
// overrides them.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(raw, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not parse config file: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device must not be empty")
	}
	if c.Address == 0 || c.Address > 0x7F {
		return fmt.Errorf("address %#x is not a valid 7-bit i2c address", c.Address)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.PollIntervalMs)
	}
	switch c.Transport {
	case TransportPeriph, TransportGobot, TransportMCP2221:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
