/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/allbin/ip2sl"
	"github.com/allbin/ip2sl/internal/logging"
	"github.com/allbin/ip2sl/internal/settings"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes, one per error kind
const (
	exitFailure       = 1
	exitInvalidConfig = 2
	exitWiring        = 3
	exitConnect       = 4
)

var logger = zerolog.Nop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ip2sl",
	Short: "Manage the serial side of an IP-to-serial-line bridge",
	Long: `ip2sl validates and opens the serial device behind an IP-to-serial-line
bridge endpoint.

The serial device is described in the YAML configuration file:

  serial:
    path: /dev/ttyUSB0
    baud: 9600            # clamped to 300..115200
    flow: FLOW_NONE       # FLOW_HARDWARE, FLOW_NONE (DUPLEX_HALF/DUPLEX_FULL unsupported)
    parity: PARITY_NO     # PARITY_NO, PARITY_ODD, PARITY_EVEN
    stop_bits: STOPBITS_1 # STOPBITS_1, STOPBITS_2
    timeout: 10           # read timeout in seconds, 0 for non-blocking

IP2SL_CONFIG overrides --config and IP2SL_SERVER_HOST overrides ip2sl.ip.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(os.Stderr, viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", settings.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindEnv("log_level", "IP2SL_LOG_LEVEL")
}

// loadSettings reads the configuration file named by --config
func loadSettings() (*settings.Settings, error) {
	return settings.Load(viper.GetString("config"), logger)
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	switch {
	case errors.Is(err, ip2sl.ErrInvalidConfiguration):
		return exitInvalidConfig
	case errors.Is(err, ip2sl.ErrUnsupportedWiring):
		return exitWiring
	case errors.Is(err, ip2sl.ErrConnectFailure):
		return exitConnect
	default:
		return exitFailure
	}
}
