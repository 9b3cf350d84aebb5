package webapp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetters(t *testing.T) {
	s := Settings{
		"HOST":    "0.0.0.0",
		"PORT":    8080,
		"TESTING": true,
		"RATIO":   0.5,
	}

	assert.Equal(t, "0.0.0.0", s.String("HOST", "127.0.0.1"))
	assert.Equal(t, "127.0.0.1", s.String("MISSING", "127.0.0.1"))
	assert.Equal(t, 8080, s.Int("PORT", 5000))
	assert.Equal(t, 5000, s.Int("MISSING", 5000))
	assert.True(t, s.Bool("TESTING", false))
	assert.False(t, s.Bool("MISSING", false))
}

func TestSettingsMerged(t *testing.T) {
	base := Settings{"HOST": "127.0.0.1", "PORT": 5000}
	merged := base.Merged(Settings{"PORT": 0, "SECRET_KEY": "k"})

	assert.Equal(t, 0, merged.Int("PORT", 5000))
	assert.Equal(t, "127.0.0.1", merged.String("HOST", ""))
	assert.Equal(t, "k", merged.String("SECRET_KEY", ""))
	// the original is untouched
	assert.Equal(t, 5000, base.Int("PORT", 0))
	assert.Equal(t, "", base.String("SECRET_KEY", ""))
}

func TestLoadSettingsFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
HOST = "0.0.0.0"
PORT = 8080
TESTING = true
SECRET_KEY = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", s.String("HOST", ""))
	assert.Equal(t, 8080, s.Int("PORT", 0), "TOML integers arrive as int64")
	assert.True(t, s.Bool("TESTING", false))
	assert.Equal(t, "from-file", s.String("SECRET_KEY", ""))
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
