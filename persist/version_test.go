package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relaysim "github.com/pjchick/Relay-Simulator"
)

func TestCheckCompatible(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		engine  string
		wantErr bool
	}{
		{"exact match", "1.2.3", "1.2.3", false},
		{"file minor behind engine", "1.1.0", "1.2.0", false},
		{"file patch ahead of engine", "1.2.9", "1.2.0", false},
		{"major mismatch", "2.0.0", "1.2.0", true},
		{"file minor ahead of engine", "1.3.0", "1.2.0", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckCompatible(c.file, c.engine)
			if c.wantErr {
				require.Error(t, err)
				var verr *relaysim.VersionIncompatibleError
				assert.ErrorAs(t, err, &verr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheckCompatible_malformedVersion(t *testing.T) {
	err := CheckCompatible("not-a-version", "1.0.0")
	require.Error(t, err)

	err = CheckCompatible("1.0.0", "also-bad")
	require.Error(t, err)

	err = CheckCompatible("1.0", "1.0.0")
	require.Error(t, err, "a two-part version must be rejected, not silently zero-filled")
}
