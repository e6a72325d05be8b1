package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeFieldIsolation(t *testing.T) {
	t.Run("link", func(t *testing.T) {
		var n Node
		n.SetLink(0xDEADBEEF)
		assert.Equal(t, uint32(0xDEADBEEF), n.Link())
		assert.Equal(t, byte(0), n.Base())
		assert.Equal(t, uint32(0), n.Extra())
		assert.False(t, n.IsTail())
		assert.False(t, n.Terminal())
		assert.False(t, n.HasSibling())
	})

	t.Run("base clears extra", func(t *testing.T) {
		var n Node
		n.SetExtra(0x1FFFFF)
		require.Equal(t, uint32(0x1FFFFF), n.Extra())
		n.SetBase(0xFF)
		assert.Equal(t, byte(0xFF), n.Base())
		assert.Equal(t, uint32(0), n.Extra())
	})

	t.Run("extra does not touch base", func(t *testing.T) {
		var n Node
		n.SetBase(0xAB)
		n.SetExtra(0x155555)
		assert.Equal(t, byte(0xAB), n.Base())
		assert.Equal(t, uint32(0x155555), n.Extra())
	})

	t.Run("flags are independent", func(t *testing.T) {
		var n Node
		n.SetLink(1)
		n.SetBase(2)
		n.SetTerminal()
		n.SetSibling()
		assert.True(t, n.Terminal())
		assert.True(t, n.HasSibling())
		assert.False(t, n.IsTail())
		assert.Equal(t, uint32(1), n.Link())
		assert.Equal(t, byte(2), n.Base())
	})
}

func TestNodeTailOffset(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var n Node
		n.SetLink(7)
		n.SetTailOffset(0x12345678 & MaxTailOffset)
		assert.True(t, n.IsTail())
		assert.Equal(t, uint32(0x12345678&MaxTailOffset), n.TailOffset())
		assert.Equal(t, uint32(7), n.Link())
	})

	t.Run("max offset", func(t *testing.T) {
		var n Node
		n.SetTailOffset(MaxTailOffset)
		assert.Equal(t, uint32(MaxTailOffset), n.TailOffset())
	})

	t.Run("extra reads zero while tail flagged", func(t *testing.T) {
		var n Node
		n.SetTailOffset(0x1FF00)
		assert.Equal(t, uint32(0), n.Extra())
	})
}
