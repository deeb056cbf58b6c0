package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeAppliesDefaultsForOmittedFields(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`{"requests_per_second": 50}`))
	require.NoError(t, err)
	require.Equal(t, "utf-8", cfg.PackEncoding)
	require.Equal(t, "utf-8", cfg.UnpackEncoding)
	require.Equal(t, 50.0, cfg.RequestsPerSecond)
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`not json`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.json")
	require.Error(t, err)
}
