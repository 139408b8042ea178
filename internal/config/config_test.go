package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/property"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), b)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "serial_device: /dev/ttyUSB0\nmid: 555\ncomm_host: uplink.example.com\ncomm_port: 31000\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", b.SerialDevice)
	assert.EqualValues(t, 555, b.MID)
	assert.Equal(t, "uplink.example.com", b.CommHost)
	assert.EqualValues(t, 31000, b.CommPort)
	assert.Equal(t, "debug", b.LogLevel)
}

func TestSeedDefinitionsOverridesOnlyConfiguredKeys(t *testing.T) {
	b := Bootstrap{SerialDevice: "/dev/ttyUSB3", CommHost: "uplink.example.com"}
	defs := b.SeedDefinitions(property.DefaultDefinitions())

	store, err := property.NewStore(defs, "")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB3", store.GetString(property.KeyIboxPort, ""))
	assert.Equal(t, "uplink.example.com", store.GetString(property.KeyCommHost, ""))
	// untouched key keeps its compiled-in default
	assert.EqualValues(t, 147, store.GetUint32(property.KeyIboxMID, 0, 0))
}

func TestSeedDefinitionsDoesNotMutateInput(t *testing.T) {
	orig := property.DefaultDefinitions()
	b := Bootstrap{SerialDevice: "/dev/ttyUSB9"}
	_ = b.SeedDefinitions(orig)
	assert.Equal(t, "/dev/ttyS1", orig[indexOf(orig, property.KeyIboxPort)].Default)
}

func indexOf(defs []property.Definition, key property.Key) int {
	for i, d := range defs {
		if d.Key == key {
			return i
		}
	}
	return -1
}
