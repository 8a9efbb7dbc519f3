// Package display turns fetched metadata into the table and tree structures
// the printer lays out.
package display

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how metadata is shown.
type Mode int

const (
	ModeTable Mode = iota
	ModeTree
)

// DefaultMode is used when no display is requested.
const DefaultMode = ModeTable

var modeNames = [...]string{
	ModeTable: "table",
	ModeTree:  "tree",
}

// ErrInvalidMode is returned by ParseMode for unknown display names.
var ErrInvalidMode = errors.New("invalid display")

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes returns the valid display names.
func Modes() []string {
	return append([]string(nil), modeNames[:]...)
}

// ParseMode maps a display name to a Mode, ignoring case.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return DefaultMode, fmt.Errorf("%w %q: must be one of: %s", ErrInvalidMode, s, strings.Join(modeNames[:], ", "))
}
