/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/allbin/ip2sl"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(12)

	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// field is one labelled row of a rendered block
type field struct {
	label string
	value string
}

// renderFields prints a titled block of label/value rows
func renderFields(w io.Writer, title string, fields []field) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(f.label), f.value)
	}
}

// configFields lists the effective serial configuration
func configFields(cfg ip2sl.SerialConfig) []field {
	flow := string(cfg.Flow)
	if cfg.Flow.Signals() {
		flow += " (RTS/CTS, DSR/DTR)"
	}

	return []field{
		{"Path", cfg.Path},
		{"Baud", strconv.Itoa(cfg.Baud)},
		{"Parity", string(cfg.Parity)},
		{"Stop bits", string(cfg.StopBits)},
		{"Data bits", strconv.Itoa(ip2sl.DataBits)},
		{"Timeout", fmt.Sprintf("%ds", cfg.Timeout)},
		{"Flow", flow},
		{"Wiring", cfg.Topology().String()},
	}
}

// status renders a pass/fail marker
func status(ok bool, text string) string {
	if ok {
		return okStyle.Render(text)
	}
	return badStyle.Render(text)
}
