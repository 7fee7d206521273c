package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkers__Sequence(t *testing.T) {
	names, err := parseMarkers([]byte("- hero\n- Assets/villain.png\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "Assets/villain.png"}, names)
}

func TestParseMarkers__Mapping(t *testing.T) {
	names, err := parseMarkers([]byte("markers:\n  - hero\n  - villain\nunused: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "villain"}, names)
}

func TestParseMarkers__Empty(t *testing.T) {
	names, err := parseMarkers([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestParseMarkers__Invalid(t *testing.T) {
	_, err := parseMarkers([]byte("just a string"))
	assert.Error(t, err)

	_, err = parseMarkers([]byte("markers: [unterminated"))
	assert.Error(t, err)
}

func TestLoadMarkersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

	names, err := loadMarkersFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = loadMarkersFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
