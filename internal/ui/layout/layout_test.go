package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Learn german", 3, 120, 100)
	assert.Contains(t, h, "Leitbox")
	assert.Contains(t, h, "Learn german")
	assert.Contains(t, h, "3 due")
	assert.Contains(t, h, "120 cards")
}

func TestRenderFooter_DropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "Space", Description: "Reveal"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Quit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}

	wide := RenderFooter(hints, 100)
	for _, h := range hints {
		assert.Contains(t, wide, h.Key)
	}

	narrow := RenderFooter(hints, 34)
	assert.Contains(t, narrow, "Space")
	assert.Contains(t, narrow, "Ctrl+C")
	assert.NotContains(t, narrow, "Esc")
	for _, line := range strings.Split(narrow, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 34)
	}
}

func TestSizes(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
	assert.Equal(t, 0, ContentHeight(4))
	assert.Equal(t, 18, ContentHeight(24))
}
