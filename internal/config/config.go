// Package config loads the YAML configuration file. Flags in the binaries
// override whatever is set here.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/enlighten/internal/strip"
)

type Strip struct {
	Driver     string  `yaml:"driver"` // "sim" | "spi" | "pwm" | "console"
	Output     string  `yaml:"output"` // GPIO label for pwm, e.g. D18
	Count      int     `yaml:"count"`
	Brightness float64 `yaml:"brightness"`
	ColorOrder string  `yaml:"color_order"`
	// MaxMilliamps caps the estimated draw of the whole strip, 0 for none.
	MaxMilliamps float64 `yaml:"max_milliamps,omitempty"`
	// Fallback swaps in the simulator when the hardware will not open.
	Fallback bool `yaml:"fallback"`
}

// SPIClockHz is the only SPI clock the WS281x encoder works at.
const SPIClockHz = 2500000

type SPI struct {
	Port    string `yaml:"port"`     // periph port name, "" for the first one
	SpeedHz int    `yaml:"speed_hz"` // SPI clock; nrzled only runs at 2500000
}

type User struct {
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type Auth struct {
	Users      []User        `yaml:"users,omitempty"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	// Login attempts per second allowed per client address, and burst.
	LoginRate  float64 `yaml:"login_rate"`
	LoginBurst int     `yaml:"login_burst"`
}

type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

type Dispatch struct {
	Policy string `yaml:"policy"` // "reject" | "preempt"
}

type Playlist struct {
	Path      string `yaml:"path"`
	Autostart bool   `yaml:"autostart"`
}

type Config struct {
	LogLevel string   `yaml:"log_level"`
	Strip    Strip    `yaml:"strip"`
	SPI      SPI      `yaml:"spi,omitempty"`
	Server   Server   `yaml:"server"`
	Auth     Auth     `yaml:"auth"`
	Dispatch Dispatch `yaml:"dispatch"`
	Playlist Playlist `yaml:"playlist,omitempty"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Strip: Strip{
			Driver:     "sim",
			Output:     "D18",
			Count:      strip.DefaultCount,
			Brightness: strip.DefaultBrightness,
			ColorOrder: string(strip.DefaultOrder),
			Fallback:   true,
		},
		SPI: SPI{SpeedHz: SPIClockHz},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Auth: Auth{
			SessionTTL: 12 * time.Hour,
			LoginRate:  0.5,
			LoginBurst: 5,
		},
		Dispatch: Dispatch{Policy: "reject"},
	}
}

// Load reads path over the defaults, so a partial file is fine.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// StripConfig is the strip part in the driver's own types.
func (c *Config) StripConfig() (strip.Config, error) {
	order, err := strip.ParseChannelOrder(c.Strip.ColorOrder)
	if err != nil {
		return strip.Config{}, err
	}
	return strip.Config{
		Output:       c.Strip.Output,
		Count:        c.Strip.Count,
		Brightness:   c.Strip.Brightness,
		Order:        order,
		MaxMilliamps: c.Strip.MaxMilliamps,
	}, nil
}

func (c *Config) Validate() error {
	sc, err := c.StripConfig()
	if err != nil {
		return fmt.Errorf("strip: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("strip: %w", err)
	}
	switch c.Strip.Driver {
	case "sim", "spi", "pwm", "console":
	default:
		return fmt.Errorf("strip: unknown driver %q", c.Strip.Driver)
	}
	if c.SPI.SpeedHz != 0 && c.SPI.SpeedHz != SPIClockHz {
		return fmt.Errorf("spi: speed_hz %d, the nrzled encoder needs %d", c.SPI.SpeedHz, SPIClockHz)
	}
	switch c.Dispatch.Policy {
	case "reject", "preempt":
	default:
		return fmt.Errorf("dispatch: unknown policy %q", c.Dispatch.Policy)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth: session_ttl must be positive")
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst < 1 {
		return fmt.Errorf("auth: login_rate and login_burst must be positive")
	}
	seen := map[string]bool{}
	for _, u := range c.Auth.Users {
		if u.Name == "" || u.PasswordHash == "" {
			return fmt.Errorf("auth: users need a name and password_hash")
		}
		if seen[u.Name] {
			return fmt.Errorf("auth: duplicate user %q", u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}
