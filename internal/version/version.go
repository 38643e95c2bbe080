package version

import (
	"fmt"
)

type Version struct {
	MajorNumber int64
	MinorNumber int64
	PatchNumber int64
}

// Set at link time with -ldflags "-X .../internal/version.Build=<rev>".
var Build string

// String formats v as major.minor.patch, followed by the build revision
// when known.
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.MajorNumber, v.MinorNumber, v.PatchNumber)
	if Build != "" {
		s += "+" + Build
	}
	return s
}

var (
	AppVersion = Version{
		MajorNumber: 0,
		MinorNumber: 3,
		PatchNumber: 0,
	}
)
