package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/config"
)

func TestContext_RoundTrip(t *testing.T) {
	c := NewCLI(config.Default(), "/tmp/config.yaml")

	got, err := GetCLIFromContext(WithCLI(context.Background(), c))
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = GetCLIFromContext(context.Background())
	assert.True(t, errors.Is(err, ErrNoCLI))
}

func TestCLI_ConfigIsACopy(t *testing.T) {
	c := NewCLI(config.Default(), "")

	cfg := c.Config()
	cfg.Page.Mode = "single"
	assert.Equal(t, "tiled", c.App.Config.Page.Mode)
}
