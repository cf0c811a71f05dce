package types

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionNumber is the decimal version label ("1.0", "1.1", "2.0") stored as
// an integer pair so ordering and equality are exact. Minor vs. major is a
// caller convention; the ledger only enforces strict monotonic uniqueness.
type VersionNumber struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

func (v VersionNumber) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (v VersionNumber) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v VersionNumber) Less(other VersionNumber) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

func (v VersionNumber) BumpMinor() VersionNumber {
	return VersionNumber{Major: v.Major, Minor: v.Minor + 1}
}

func (v VersionNumber) BumpMajor() VersionNumber {
	return VersionNumber{Major: v.Major + 1, Minor: 0}
}

func ParseVersionNumber(s string) (VersionNumber, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 2)
	if len(parts) != 2 {
		return VersionNumber{}, fmt.Errorf("invalid version number %q, expected <major>.<minor>", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return VersionNumber{}, fmt.Errorf("invalid major version in %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return VersionNumber{}, fmt.Errorf("invalid minor version in %q", s)
	}
	return VersionNumber{Major: major, Minor: minor}, nil
}
