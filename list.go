package ip2sl

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.bug.st/serial"
)

// getPortsList is replaced in tests
var getPortsList = serial.GetPortsList

// Device names that are terminals rather than serial lines
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^tty\d+$`),
	regexp.MustCompile(`^console$`),
	regexp.MustCompile(`^ptmx$`),
	regexp.MustCompile(`^pty.*$`),
}

// PortKind classifies a serial device family
type PortKind string

const (
	KindUSB      PortKind = "usb"
	KindStandard PortKind = "standard"
	KindARM      PortKind = "arm"
	KindOther    PortKind = "other"
)

// PortInfo describes a serial device found on the system
type PortInfo struct {
	Name        string
	Path        string
	Kind        PortKind
	Description string
}

// portFamilies maps device name prefixes to their kind and description.
// Longer prefixes come first so ttyS does not shadow ttySAC.
var portFamilies = []struct {
	prefix      string
	kind        PortKind
	description string
}{
	{"ttyUSB", KindUSB, "USB Serial Port"},
	{"ttyACM", KindUSB, "USB CDC/ACM Device"},
	{"ttyAMA", KindARM, "ARM Serial Port"},
	{"ttymxc", KindARM, "i.MX Serial Port"},
	{"ttySAC", KindARM, "Samsung Serial Port"},
	{"ttyTHS", KindARM, "Tegra Serial Port"},
	{"ttyO", KindARM, "OMAP Serial Port"},
	{"ttyS", KindStandard, "Standard Serial Port"},
	{"COM", KindStandard, "Standard Serial Port"},
	{"cu.", KindOther, "Callout Device"},
}

// ListPorts returns the serial devices present on the system, sorted, with
// virtual terminals removed
func ListPorts() ([]string, error) {
	found, err := getPortsList()
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, path := range found {
		if isExcluded(filepath.Base(path)) {
			continue
		}
		ports = append(ports, path)
	}

	sort.Strings(ports)
	return ports, nil
}

// isExcluded reports whether name is a terminal device rather than a serial line
func isExcluded(name string) bool {
	for _, pattern := range excludePatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// GetPortInfo returns information about the device at portPath
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	kind, description := classifyPort(name)
	return &PortInfo{
		Name:        name,
		Path:        portPath,
		Kind:        kind,
		Description: description,
	}, nil
}

// classifyPort returns the kind and description for a device name
func classifyPort(name string) (PortKind, string) {
	for _, family := range portFamilies {
		if strings.HasPrefix(name, family.prefix) {
			return family.kind, family.description
		}
	}
	return KindOther, "Serial Port"
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
