/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/ip2sl"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display information about a serial device",
	Long: `Display the name, kind and description of a serial device.

Without an argument the device configured as serial.path is shown.

Examples:
  ip2sl info
  ip2sl info /dev/ttyUSB0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var portPath string
		if len(args) == 1 {
			portPath = args[0]
		} else {
			conf, err := loadSettings()
			if err != nil {
				return err
			}
			path, ok := conf.Serial[ip2sl.KeyPath].(string)
			if !ok || path == "" {
				return &ip2sl.ConfigError{Key: ip2sl.KeyPath}
			}
			portPath = path
		}

		info, err := ip2sl.GetPortInfo(portPath)
		if err != nil {
			return fmt.Errorf("%s: %w", portPath, err)
		}

		renderFields(cmd.OutOrStdout(), "Port "+info.Path, []field{
			{"Name", info.Name},
			{"Kind", string(info.Kind)},
			{"Description", info.Description},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
