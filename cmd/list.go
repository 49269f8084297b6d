/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/allbin/ip2sl"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial devices a bridge can be pointed at",
	Long: `List the serial devices present on the system, for use as serial.path in
the configuration file.

Virtual terminals and pseudo-terminals are excluded from the listing.

Examples:
  ip2sl list
  ip2sl list --filter usb --table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := ip2sl.ListPorts()
		if err != nil {
			return fmt.Errorf("listing ports: %w", err)
		}

		filter, _ := cmd.Flags().GetString("filter")
		table, _ := cmd.Flags().GetBool("table")

		infos := filterPorts(ports, filter)
		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			if filter != "" && filter != "all" {
				fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filter)
			} else {
				fmt.Fprintln(out, "No serial ports found")
			}
			return nil
		}

		if table {
			renderTable(out, infos)
		} else {
			for _, info := range infos {
				fmt.Fprintln(out, info.Path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port kind: usb, standard, arm, other, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts resolves ports and keeps those of the requested kind
func filterPorts(ports []string, filter string) []*ip2sl.PortInfo {
	filter = strings.ToLower(filter)

	var infos []*ip2sl.PortInfo
	for _, port := range ports {
		info, err := ip2sl.GetPortInfo(port)
		if err != nil {
			continue
		}
		if filter != "" && filter != "all" && string(info.Kind) != filter {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// renderTable renders the port list as a styled table
func renderTable(w io.Writer, infos []*ip2sl.PortInfo) {
	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(infos))

	const (
		pathWidth = 18
		kindWidth = 10
		descWidth = 30
	)

	headerStyle := titleStyle.PaddingBottom(1)
	cellStyle := lipgloss.NewStyle().PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s",
		pathWidth, "Path",
		kindWidth, "Kind",
		descWidth, "Description")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, info := range infos {
		row := fmt.Sprintf("%-*s %-*s %-*s",
			pathWidth, info.Path,
			kindWidth, info.Kind,
			descWidth, info.Description)
		fmt.Fprintln(w, cellStyle.Render(row))
	}
}
