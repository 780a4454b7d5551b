package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsAreAvailableBeforeAnyFileLoad(t *testing.T) {
	c := New()
	require.Equal(t, "m/d/Y", c.GetString("dateformat", ""))
	require.Equal(t, 6.0, c.GetFloat("urgency.priority.coefficient", 0))
	src, ok := c.SourceOf("dateformat")
	require.True(t, ok)
	require.Equal(t, SourceDefault, src)
}

func TestFileValueOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".taskrc")
	require.NoError(t, os.WriteFile(path, []byte("dateformat=Y-m-d\n# a comment\n\nweekstart=monday\n"), 0o644))

	c := New()
	require.NoError(t, LoadFile(c, path))
	require.Equal(t, "Y-m-d", c.GetString("dateformat", ""))
	require.Equal(t, "monday", c.GetString("weekstart", ""))
	src, _ := c.SourceOf("dateformat")
	require.Equal(t, SourceFile, src)
}

func TestOverrideBeatsFileAndDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".taskrc")
	require.NoError(t, os.WriteFile(path, []byte("dateformat=Y-m-d\n"), 0o644))

	c := New()
	require.NoError(t, LoadFile(c, path))
	c.SetOverride("dateformat", "d.m.Y")

	require.Equal(t, "d.m.Y", c.GetString("dateformat", ""))
	src, _ := c.SourceOf("dateformat")
	require.Equal(t, SourceOverride, src)
}

func TestIncludeDirectiveLoadsNestedFile(t *testing.T) {
	dir := t.TempDir()
	included := filepath.Join(dir, "included.rc")
	require.NoError(t, os.WriteFile(included, []byte("color=off\n"), 0o644))
	main := filepath.Join(dir, ".taskrc")
	require.NoError(t, os.WriteFile(main, []byte("include included.rc\nweekstart=monday\n"), 0o644))

	c := New()
	require.NoError(t, LoadFile(c, main))
	require.Equal(t, "off", c.GetString("color", ""))
	require.Equal(t, "monday", c.GetString("weekstart", ""))
}

func TestIncludeCycleIsRejected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.rc")
	b := filepath.Join(dir, "b.rc")
	require.NoError(t, os.WriteFile(a, []byte("include b.rc\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("include a.rc\n"), 0o644))

	c := New()
	err := LoadFile(c, a)
	require.Error(t, err)
}

func TestMalformedLineIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".taskrc")
	require.NoError(t, os.WriteFile(path, []byte("not-a-key-value-line\n"), 0o644))

	c := New()
	err := LoadFile(c, path)
	require.Error(t, err)
}

func TestGetBoolAcceptsTaskwarriorStyleOnOff(t *testing.T) {
	c := New()
	c.SetOverride("locking", "off")
	require.False(t, c.GetBool("locking", true))
	c.SetOverride("locking", "on")
	require.True(t, c.GetBool("locking", false))
}

func TestExtractOverridesAppliesRcTokensAndStripsThem(t *testing.T) {
	c := New()
	remainder := ExtractOverrides(c, []string{"list", "rc.color=off", "project:Home"})
	require.Equal(t, []string{"list", "project:Home"}, remainder)
	require.Equal(t, "off", c.GetString("color", ""))
}
