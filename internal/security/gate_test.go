package security

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForDeletion(t *testing.T) {
	home := "/home/user"
	gate := NewGate(home)

	tests := []struct {
		name string
		path string
		want error // nil means the path passes
	}{
		{"empty path", "", ErrInvalidPath},
		{"filesystem root", "/", ErrInvalidPath},
		{"root via dots", "/home/..", ErrInvalidPath},
		{"outside home", "/etc/passwd", ErrOutsideHome},
		{"sibling user prefix", "/home/userx/node_modules", ErrOutsideHome},
		{"home itself", home, ErrOutsideHome},
		{"home via trailing slash", home + "/", ErrOutsideHome},
		{"protected desktop", filepath.Join(home, "Desktop"), ErrProtectedDirectory},
		{"protected ssh", filepath.Join(home, ".ssh"), ErrProtectedDirectory},
		{"protected library", filepath.Join(home, "Library"), ErrProtectedDirectory},
		{"artifact under desktop", filepath.Join(home, "Desktop", "project", "node_modules"), nil},
		{"plain artifact", filepath.Join(home, "work", "api", "target"), nil},
		{"direct child of home", filepath.Join(home, "junk"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.ValidateForDeletion(tt.path)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGateNormalizesBeforeChecking(t *testing.T) {
	gate := NewGate("/home/user")

	// Dot segments must not smuggle a protected path past the exact match.
	err := gate.ValidateForDeletion("/home/user/work/../Documents")
	assert.ErrorIs(t, err, ErrProtectedDirectory)

	// ...or escape the home boundary.
	err = gate.ValidateForDeletion("/home/user/../../etc")
	assert.ErrorIs(t, err, ErrOutsideHome)
}

func TestGateProtectsOnlyExactMatches(t *testing.T) {
	gate := NewGate("/home/user")

	// A directory merely named like a protected one, nested deeper, passes.
	assert.NoError(t, gate.ValidateForDeletion("/home/user/backup/Documents"))
	// A sibling sharing a protected prefix passes too.
	assert.NoError(t, gate.ValidateForDeletion("/home/user/Downloads2"))
}
