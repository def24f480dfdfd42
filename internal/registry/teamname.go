package registry

import (
	"fmt"
	"strings"
)

// MaxTeamNameLength is measured in bytes after trimming.
const MaxTeamNameLength = 50

// TeamName is a trimmed, non-empty team name of at most MaxTeamNameLength bytes.
type TeamName string

// ParseTeamName trims surrounding whitespace and checks the length.
func ParseTeamName(s string) (TeamName, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: enter a team name", ErrInvalidTeamName)
	}
	if len(name) > MaxTeamNameLength {
		return "", fmt.Errorf("%w: team name too long", ErrInvalidTeamName)
	}
	return TeamName(name), nil
}

func (n TeamName) String() string { return string(n) }
