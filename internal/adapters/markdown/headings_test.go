package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadings(t *testing.T) {
	source := strings.Join([]string{
		"# Title",
		"",
		"Intro with a # not a heading",
		"",
		"## Section *one*",
		"",
		"```",
		"# inside code",
		"```",
		"",
		"Setext",
		"------",
		"",
		"### `code` and [link](http://x)",
	}, "\n")

	got := NewParser().Headings(source)

	require.Len(t, got, 4)
	assert.Equal(t, "heading-0", got[0].Key)
	assert.Equal(t, "Title", got[0].Text)
	assert.Equal(t, 1, got[0].Level)
	assert.Equal(t, "Section one", got[1].Text)
	assert.Equal(t, 2, got[1].Level)
	assert.Equal(t, "Setext", got[2].Text)
	assert.Equal(t, 2, got[2].Level)
	assert.Equal(t, "code and link", got[3].Text)
	assert.Equal(t, "h3", got[3].Tag())
}

func TestHeadings_Empty(t *testing.T) {
	assert.Empty(t, NewParser().Headings("just text\n\nmore text"))
	assert.Empty(t, NewParser().Headings(""))
}

func TestRender(t *testing.T) {
	r := NewRenderer("dark")

	out, err := r.Render("# Hello\n\nSome **bold** text", 40)

	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "bold")

	r.SetTheme("light")
	out, err = r.Render("plain", 0)
	require.NoError(t, err)
	assert.Contains(t, out, "plain")
}
