// Package settings loads the bridge configuration file.
//
// The file is YAML:
//
//	ip2sl:
//	  ip: 192.168.1.20
//	log_level: info
//	allowed_ips:
//	  - 192.168.1.10
//	  - 10.0.0.0/24
//	serial:
//	  path: /dev/ttyUSB0
//	  baud: 9600
//	  flow: FLOW_NONE
//	  parity: PARITY_NO
//	  stop_bits: STOPBITS_1
//	  timeout: 10
//
// IP2SL_CONFIG overrides the file path and IP2SL_SERVER_HOST overrides ip2sl.ip.
package settings

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/allbin/ip2sl"
)

const (
	DefaultFile = "config/default.yaml"
	DefaultHost = "0.0.0.0" // only usable for testing, must be routable in production

	EnvConfig = "IP2SL_CONFIG"
	EnvHost   = "IP2SL_SERVER_HOST"
)

// Settings is the parsed configuration file
type Settings struct {
	File     string
	Host     string
	LogLevel string
	Serial   ip2sl.RawConfig
	Allowed  *AllowList
}

// ResolveFile returns the configuration path to load: IP2SL_CONFIG when set,
// otherwise file, otherwise DefaultFile
func ResolveFile(file string) string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if file == "" {
		return DefaultFile
	}
	return file
}

// Load reads the configuration file selected by ResolveFile
func Load(file string, logger zerolog.Logger) (*Settings, error) {
	file = ResolveFile(file)

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetDefault("ip2sl.ip", DefaultHost)
	v.SetDefault("log_level", "info")
	if err := v.BindEnv("ip2sl.ip", EnvHost); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", file, err)
	}

	allowed, err := NewAllowList(v.GetStringSlice("allowed_ips"))
	if err != nil {
		return nil, err
	}
	if !allowed.Empty() {
		logger.Info().Strs("allowed_ips", allowed.Entries()).
			Msg("Only allowing IP connections for control and proxy from these IP addresses")
	}

	s := &Settings{
		File:     file,
		Host:     v.GetString("ip2sl.ip"),
		LogLevel: v.GetString("log_level"),
		Serial:   ip2sl.RawConfig(v.GetStringMap("serial")),
		Allowed:  allowed,
	}
	logger.Debug().Str("file", file).Str("host", s.Host).Msg("Loaded configuration")

	return s, nil
}
