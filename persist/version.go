package persist

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pjchick/Relay-Simulator"
)

// semVer is a parsed major.minor.patch triple. The corpus carries no SemVer
// library (Masterminds/semver, hashicorp/go-version and blang/semver are all
// absent), and the compatibility rule only needs three dot-separated
// integers compared pairwise, which doesn't warrant pulling one in.
type semVer struct {
	major, minor, patch int
}

func parseSemVer(s string) (semVer, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return semVer{}, errors.Errorf("malformed version %q: want major.minor.patch", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return semVer{}, errors.Wrapf(err, "malformed version %q", s)
		}
		nums[i] = n
	}
	return semVer{major: nums[0], minor: nums[1], patch: nums[2]}, nil
}

// CheckCompatible enforces the file-format compatibility rule: a document's
// major version must equal the engine's exactly, and its minor version must
// not exceed the engine's (a newer-minor file may use fields this engine
// doesn't understand). Patch is never checked.
func CheckCompatible(fileVersion, engineVersion string) error {
	fv, err := parseSemVer(fileVersion)
	if err != nil {
		return errors.WithStack(err)
	}
	ev, err := parseSemVer(engineVersion)
	if err != nil {
		return errors.WithStack(err)
	}
	if fv.major != ev.major || fv.minor > ev.minor {
		return errors.WithStack(&relaysim.VersionIncompatibleError{
			FileVersion:   fileVersion,
			EngineVersion: engineVersion,
		})
	}
	return nil
}
