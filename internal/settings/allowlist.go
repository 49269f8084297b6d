package settings

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"go4.org/netipx"
)

// AllowList is the immutable set of client addresses permitted to use the
// bridge. It is built once at startup and shared by reference. An empty list
// allows everyone.
type AllowList struct {
	set     *netipx.IPSet
	entries []string
}

// NewAllowList builds an AllowList from addresses ("10.0.0.5") and CIDR
// prefixes ("10.0.0.0/24")
func NewAllowList(entries []string) (*AllowList, error) {
	var b netipx.IPSetBuilder
	var kept []string

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid allowed_ips entry %q: %w", entry, err)
			}
			b.AddPrefix(prefix.Masked())
		} else {
			addr, err := netip.ParseAddr(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid allowed_ips entry %q: %w", entry, err)
			}
			b.Add(addr.Unmap())
		}
		kept = append(kept, entry)
	}

	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("failed to build allow list: %w", err)
	}
	return &AllowList{set: set, entries: kept}, nil
}

// Empty reports whether no restriction is configured
func (a *AllowList) Empty() bool {
	return a == nil || len(a.entries) == 0
}

// Allows reports whether addr may connect
func (a *AllowList) Allows(addr netip.Addr) bool {
	if a.Empty() {
		return true
	}
	return a.set.Contains(addr.Unmap())
}

// AllowsString parses addr and reports whether it may connect
func (a *AllowList) AllowsString(addr string) (bool, error) {
	parsed, err := netip.ParseAddr(strings.TrimSpace(addr))
	if err != nil {
		return false, err
	}
	return a.Allows(parsed), nil
}

// Entries returns the configured entries in file order
func (a *AllowList) Entries() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.entries)
}
