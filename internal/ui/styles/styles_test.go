package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imgajeed76/pgaccess/internal/util"
)

func TestNoColorFallbacks(t *testing.T) {
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })

	assert.Equal(t, "+ done", SuccessMsg("done"))
	assert.Equal(t, "! careful", WarningMsg("careful"))
	assert.Equal(t, "Error: boom", ErrorMsg("boom"))
	assert.Equal(t, "[Default]", Badge("[Default]"))
	assert.Equal(t, "{+Senior +}Editor", Diff(util.InlineDiff("Editor", "Senior Editor")))
}

func TestAccessibleFromEnv(t *testing.T) {
	t.Setenv("PGACCESS_ACCESSIBLE", "1")
	assert.True(t, IsAccessible())

	t.Setenv("PGACCESS_ACCESSIBLE", "")
	assert.False(t, IsAccessible())

	SetAccessible(true)
	t.Cleanup(func() { SetAccessible(false) })
	assert.True(t, IsAccessible())
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", 2))
}
