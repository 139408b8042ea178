// Package config loads the agent's bootstrap configuration: the
// deploy-time convenience layer that seeds a handful of property
// values (serial device, MID, uplink host/port) before the property
// store's own persisted file is loaded; the log level it also carries
// is applied directly to the logger, not stored as a property. It sits in front of
// internal/property, it never replaces it — every value it seeds
// remains a regular, later-overwritable property entry.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/viper"

	"github.com/ositech/dmtp-agent/internal/property"
)

// Bootstrap is the bootstrap file's shape, grounded on
// other_examples/allbin-go-serial's viper+mapstructure config idiom.
type Bootstrap struct {
	SerialDevice    string `mapstructure:"serial_device"`
	MID             uint32 `mapstructure:"mid"`
	CommHost        string `mapstructure:"comm_host"`
	CommPort        uint32 `mapstructure:"comm_port"`
	LogLevel        string `mapstructure:"log_level"`
	PropertyFile    string `mapstructure:"property_file"`
	UplinkTransport string `mapstructure:"uplink_transport"`
	IndicatorPin    string `mapstructure:"indicator_pin"`
}

// Defaults returns the bootstrap values used when no config file is
// present at all, matching the property table's own compiled-in
// defaults so an unconfigured agent and a missing-config-file agent
// behave identically.
func Defaults() Bootstrap {
	return Bootstrap{
		SerialDevice:    "/dev/ttyS1",
		MID:             147,
		LogLevel:        "info",
		PropertyFile:    "/etc/dmtp-agent/properties.db",
		UplinkTransport: "udp",
	}
}

// Load reads the bootstrap file at path, or — when path is empty —
// searches /etc/dmtp-agent/config.yaml and ./config.yaml. A missing
// file is not an error: Load returns Defaults() unchanged, since the
// bootstrap layer is an optional convenience, not a required one.
func Load(path string) (Bootstrap, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/dmtp-agent")
		v.AddConfigPath(".")
	}

	b := Defaults()
	v.SetDefault("serial_device", b.SerialDevice)
	v.SetDefault("mid", b.MID)
	v.SetDefault("log_level", b.LogLevel)
	v.SetDefault("property_file", b.PropertyFile)
	v.SetDefault("uplink_transport", b.UplinkTransport)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit SetConfigFile path that doesn't exist surfaces as
		// a plain os.PathError rather than ConfigFileNotFoundError (that
		// type is only returned by the name+paths search branch), so
		// both are treated as "no bootstrap file, use defaults".
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return b, nil
		}
		return Bootstrap{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&b); err != nil {
		return Bootstrap{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return b, nil
}

// SeedDefinitions overlays b's nonzero SerialDevice, MID, CommHost and
// CommPort fields onto defs's compiled-in
// defaults, returning a new slice — defs itself is never mutated,
// since DefaultDefinitions() callers may share the backing array.
// Seeding happens before property.NewStore loads any persisted file,
// so a persisted override still wins over the bootstrap value.
func (b Bootstrap) SeedDefinitions(defs []property.Definition) []property.Definition {
	out := make([]property.Definition, len(defs))
	copy(out, defs)

	overrides := map[property.Key]string{}
	if b.SerialDevice != "" {
		overrides[property.KeyIboxPort] = b.SerialDevice
	}
	if b.MID != 0 {
		overrides[property.KeyIboxMID] = strconv.FormatUint(uint64(b.MID), 10)
	}
	if b.CommHost != "" {
		overrides[property.KeyCommHost] = b.CommHost
	}
	if b.CommPort != 0 {
		overrides[property.KeyCommPort] = strconv.FormatUint(uint64(b.CommPort), 10)
	}

	for i, d := range out {
		if v, ok := overrides[d.Key]; ok {
			out[i].Default = v
		}
	}
	return out
}
