/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"io"
	"maps"

	"github.com/allbin/ip2sl"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the serial configuration without opening the device",
	Long: `Normalize the serial section of the configuration file and print the
effective values: defaults filled in, baud rate clamped to 300..115200.

The device is not opened. Multidrop (RS-485) flow modes are reported as
unsupported.

Examples:
  ip2sl validate
  ip2sl validate --config /etc/ip2sl/default.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadSettings()
		if err != nil {
			return err
		}
		return runValidate(cmd.OutOrStdout(), conf.Serial)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate normalizes a copy of raw and prints the result
func runValidate(w io.Writer, raw ip2sl.RawConfig) error {
	cfg, err := ip2sl.Normalize(maps.Clone(raw))
	if err != nil {
		return err
	}

	if cfg.Topology() == ip2sl.Multidrop {
		renderFields(w, "Serial configuration "+status(false, "UNSUPPORTED"), configFields(cfg))
		return &ip2sl.WiringError{Flow: cfg.Flow}
	}

	renderFields(w, "Serial configuration "+status(true, "OK"), configFields(cfg))
	return nil
}
