package procprobe

import "strings"

// Signature identifies a daemon instance on the process table. A command line
// matches when it contains both the executable name and the autostart mark,
// meaning the process is this same daemon launched the same way.
type Signature struct {
	Executable    string
	AutostartMark string
}

// Matches reports whether the command line carries both signature substrings.
func (s Signature) Matches(command string) bool {
	if strings.TrimSpace(s.Executable) == "" || strings.TrimSpace(s.AutostartMark) == "" {
		return false
	}
	return strings.Contains(command, s.Executable) && strings.Contains(command, s.AutostartMark)
}
