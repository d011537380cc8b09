package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedEmoji(t *testing.T) {
	for _, emoji := range SupportedEmojis {
		assert.True(t, IsSupportedEmoji(emoji), emoji)
	}

	assert.False(t, IsSupportedEmoji("🎉"))
	assert.False(t, IsSupportedEmoji(":thumbsup:"))
	assert.False(t, IsSupportedEmoji(""))
}
