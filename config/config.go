// Package config loads and validates the settings a Controller and a
// Decoder need at construction time: session identity/timing and the
// directory a DictionarySet loads from.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/kingkybel/FixDecoder/dictionary"
	"github.com/kingkybel/FixDecoder/pkg/fixlog"
	"github.com/kingkybel/FixDecoder/session"
)

var validate = validator.New()

// SessionConfig describes one session.NewController's construction
// parameters.
type SessionConfig struct {
	SenderCompID    string `mapstructure:"sender_comp_id" validate:"required"`
	TargetCompID    string `mapstructure:"target_comp_id" validate:"required"`
	Role            string `mapstructure:"role" validate:"required,oneof=Initiator Acceptor"`
	BeginString     string `mapstructure:"begin_string" validate:"required"`
	HeartbeatSec    int    `mapstructure:"heartbeat_sec" validate:"min=1"`
	MaxStreamBuffer int    `mapstructure:"max_stream_buffer" validate:"min=1"`
}

// Validate runs the struct-tag validation rules against c.
func (c *SessionConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("session config: %w", err)
	}
	return nil
}

// DictionaryConfig describes where a DictionarySet loads its XML
// dictionaries from.
type DictionaryConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

// Validate runs the struct-tag validation rules against c.
func (c *DictionaryConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("dictionary config: %w", err)
	}
	return nil
}

// NewController builds a session.Controller from c, translating the
// validated Role string into a session.Role.
func (c SessionConfig) NewController(opts ...session.Option) (*session.Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	role, err := roleFromString(c.Role)
	if err != nil {
		return nil, err
	}
	allOpts := append([]session.Option{
		session.WithHeartbeatInterval(c.HeartbeatSec),
		session.WithMaxStreamBuffer(c.MaxStreamBuffer),
	}, opts...)
	return session.NewController(c.SenderCompID, c.TargetCompID, role, c.BeginString, allOpts...), nil
}

func roleFromString(s string) (session.Role, error) {
	switch s {
	case "Initiator":
		return session.Initiator, nil
	case "Acceptor":
		return session.Acceptor, nil
	default:
		return 0, fmt.Errorf("unknown session role %q", s)
	}
}

func defaultSessionConfig() SessionConfig {
	return SessionConfig{
		SenderCompID:    "SENDER",
		TargetCompID:    "TARGET",
		Role:            "Initiator",
		BeginString:     "FIX.4.4",
		HeartbeatSec:    30,
		MaxStreamBuffer: 1 << 20,
	}
}

// LoadSet builds a dictionary.DictionarySet by loading every XML
// dictionary in c.Directory.
func (c DictionaryConfig) LoadSet(log fixlog.Logger) (*dictionary.DictionarySet, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	set := dictionary.NewDictionarySet()
	if err := set.LoadDirectory(c.Directory, log); err != nil {
		return nil, err
	}
	return set, nil
}

func defaultDictionaryConfig() DictionaryConfig {
	return DictionaryConfig{Directory: "./dictionaries"}
}

// LoadSessionConfig reads a SessionConfig from path. An empty path (logged
// at Info) or a missing file at a non-empty path (logged at Warn) is not an
// error: it returns the built-in defaults, the same "try configured path,
// fall back to defaults, log" behavior the session config loader here is
// modeled on.
func LoadSessionConfig(path string, log fixlog.Logger) (SessionConfig, error) {
	if log == nil {
		log = fixlog.Nop()
	}
	log = log.Named("config")

	cfg := defaultSessionConfig()
	v := viper.New()

	if path == "" {
		log.Info("no session config path given, using defaults")
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn("session config file not found, using defaults", "path", path)
		return cfg, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read session config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal session config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDictionaryConfig reads a DictionaryConfig from path, following the
// same fallback-to-defaults behavior as LoadSessionConfig.
func LoadDictionaryConfig(path string, log fixlog.Logger) (DictionaryConfig, error) {
	if log == nil {
		log = fixlog.Nop()
	}
	log = log.Named("config")

	cfg := defaultDictionaryConfig()
	v := viper.New()

	if path == "" {
		log.Info("no dictionary config path given, using defaults")
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn("dictionary config file not found, using defaults", "path", path)
		return cfg, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read dictionary config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal dictionary config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
