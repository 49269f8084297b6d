/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the bridge host and client allow list",
	Long: `Show the host the bridge advertises and the client addresses allowed to
connect. An empty allow list admits every client.

IP2SL_SERVER_HOST overrides the ip2sl.ip setting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadSettings()
		if err != nil {
			return err
		}

		allowed := "any"
		if !conf.Allowed.Empty() {
			allowed = strings.Join(conf.Allowed.Entries(), ", ")
		}

		renderFields(cmd.OutOrStdout(), "Bridge", []field{
			{"Config", conf.File},
			{"Host", conf.Host},
			{"Allowed", allowed},
			{"Log level", conf.LogLevel},
		})
		return nil
	},
}

// allowedCmd represents the allowed command
var allowedCmd = &cobra.Command{
	Use:   "allowed <ip>",
	Short: "Check whether a client address is on the allow list",
	Long: `Check a client address against the allowed_ips list of the configuration
file. Exits non-zero when the address would be refused.

Examples:
  ip2sl allowed 192.168.1.10
  ip2sl allowed ::ffff:10.0.0.7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadSettings()
		if err != nil {
			return err
		}

		ok, err := conf.Allowed.AllowsString(args[0])
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", args[0], err)
		}
		if !ok {
			return fmt.Errorf("%s is not allowed", args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], status(true, "allowed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(allowedCmd)
}
