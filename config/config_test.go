package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSessionConfigMissingPathUsesDefaults(t *testing.T) {
	cfg, err := LoadSessionConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultSessionConfig(), cfg)
}

func TestLoadSessionConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadSessionConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, defaultSessionConfig(), cfg)
}

func TestLoadSessionConfigParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "session.yaml", `
sender_comp_id: ME
target_comp_id: THEM
role: Acceptor
begin_string: FIX.4.2
heartbeat_sec: 15
max_stream_buffer: 2048
`)

	cfg, err := LoadSessionConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "ME", cfg.SenderCompID)
	assert.Equal(t, "THEM", cfg.TargetCompID)
	assert.Equal(t, "Acceptor", cfg.Role)
	assert.Equal(t, "FIX.4.2", cfg.BeginString)
	assert.Equal(t, 15, cfg.HeartbeatSec)
	assert.Equal(t, 2048, cfg.MaxStreamBuffer)
}

func TestLoadSessionConfigRejectsInvalidRole(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "session.yaml", `
sender_comp_id: ME
target_comp_id: THEM
role: Bogus
begin_string: FIX.4.2
heartbeat_sec: 15
max_stream_buffer: 2048
`)

	_, err := LoadSessionConfig(path, nil)
	assert.Error(t, err)
}

func TestSessionConfigValidateRejectsMissingFields(t *testing.T) {
	cfg := SessionConfig{}
	assert.Error(t, cfg.Validate())
}

func TestSessionConfigNewController(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.Role = "Acceptor"

	c, err := cfg.NewController()
	require.NoError(t, err)
	assert.Equal(t, "disconnected", c.State().String())
	assert.Equal(t, uint32(1), c.NextOutgoingSeq())
}

func TestSessionConfigNewControllerRejectsUnknownRole(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.Role = "Bogus"

	_, err := cfg.NewController()
	assert.Error(t, err)
}

func TestLoadDictionaryConfigMissingPathUsesDefaults(t *testing.T) {
	cfg, err := LoadDictionaryConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultDictionaryConfig(), cfg)
}

func TestLoadDictionaryConfigParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "dictionary.yaml", `
directory: /etc/fixdecoder/dictionaries
`)

	cfg, err := LoadDictionaryConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/etc/fixdecoder/dictionaries", cfg.Directory)
}

func TestDictionaryConfigLoadSetFailsWhenDirectoryMissing(t *testing.T) {
	cfg := DictionaryConfig{Directory: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := cfg.LoadSet(nil)
	assert.Error(t, err)
}
