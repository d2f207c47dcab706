package scanner

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrim/devtrim/internal/testutil"
)

func writeString(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestVersionsScannerEnumeratesAndFlagsActive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile(".nvm/versions/node/v18.17.0/bin/node", 2048)
	f.WriteFile(".nvm/versions/node/v20.5.1/bin/node", 4096)
	f.WriteFile(".nvm/alias/default", 0)
	require.NoError(t, writeString(f.Path(".nvm", "alias", "default"), "18\n"))

	s := NewVersionsScanner(testEnv(f))
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, result.Count)
	byVersion := make(map[string]Item)
	for _, item := range result.Items {
		byVersion[item.Version] = item
	}
	assert.True(t, byVersion["v18.17.0"].Active)
	assert.False(t, byVersion["v20.5.1"].Active)
	assert.Equal(t, "nvm", byVersion["v18.17.0"].Project)
}

func TestVersionsScannerOrdersNewestFirst(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile(".pyenv/versions/3.9.2/bin/python", 10)
	f.WriteFile(".pyenv/versions/3.11.4/bin/python", 10)
	f.WriteFile(".pyenv/versions/3.10.0/bin/python", 10)

	s := NewVersionsScanner(testEnv(f))
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, result.Count)
	assert.Equal(t, "3.11.4", result.Items[0].Version)
	assert.Equal(t, "3.10.0", result.Items[1].Version)
	assert.Equal(t, "3.9.2", result.Items[2].Version)
}

func TestVersionsScannerMissingManagersYieldNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	s := NewVersionsScanner(testEnv(f))
	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Count)
}

func TestVersionsEqual(t *testing.T) {
	tests := []struct {
		installed, marker string
		want              bool
	}{
		{"v18.17.0", "18", true},
		{"v18.17.0", "v18.17.0", true},
		{"v18.17.0", "18.17.0", true},
		{"v18.17.0", "18.16", false},
		{"v20.5.1", "18", false},
		{"3.11.4", "3.11", true},
		{"system", "system", true},
		{"v18.17.0", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, versionsEqual(tt.installed, tt.marker),
			"installed=%s marker=%s", tt.installed, tt.marker)
	}
}
