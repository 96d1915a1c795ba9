package storystream_test

import (
	"testing"

	"github.com/fwojciec/storystream"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := storystream.DefaultTheme()

	assert.Equal(t, 6, theme.Title)
	assert.Equal(t, 5, theme.Selected)
	assert.Equal(t, -1, theme.Story)
	assert.Equal(t, 2, theme.Connected)
	assert.Equal(t, 3, theme.Connecting)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 8, theme.Muted)
}
