//go:build !linux

package ip2sl

// defaultOpener is used by managers created without WithOpener
var defaultOpener Opener = OpenBugst
