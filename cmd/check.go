/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"io"

	"github.com/allbin/ip2sl"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Open the configured serial device and report the applied settings",
	Long: `Open the serial device from the configuration file with the effective
settings, report them, then close the device again.

Fails with a distinct exit code per error kind:
  2  invalid configuration (bad parity, stop_bits, flow, baud or timeout)
  3  unsupported wiring (DUPLEX_HALF / DUPLEX_FULL)
  4  connect failure (missing device, permission denied, device busy)

Examples:
  ip2sl check
  ip2sl check --opener bugst`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadSettings()
		if err != nil {
			return err
		}

		openerName, _ := cmd.Flags().GetString("opener")
		opts := []ip2sl.Option{ip2sl.WithLogger(logger)}
		if openerName == "bugst" {
			opts = append(opts, ip2sl.WithOpener(ip2sl.OpenBugst))
		}

		mgr, err := ip2sl.NewManager("", conf.Serial, opts...)
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), mgr)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("opener", "default", "Transport: default, bugst")
}

// runCheck opens and closes mgr's device, printing the applied configuration
func runCheck(w io.Writer, mgr *ip2sl.Manager) error {
	conn, err := mgr.EnsureOpen()
	if err != nil {
		return err
	}
	defer mgr.Close()

	fields := append(configFields(mgr.CurrentConfig()),
		field{"Mode", conn.Mode().String()},
		field{"Session", conn.Session()},
	)
	renderFields(w, "Serial device "+status(true, "OPEN"), fields)
	return nil
}
