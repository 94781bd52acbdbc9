package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	out, err := Plain{}.Highlight("a < b && c", "go")
	require.NoError(t, err)
	assert.Equal(t, `<pre><code class="language-go">a &lt; b &amp;&amp; c</code></pre>`, out)

	out, err = Plain{}.Highlight("x", "")
	require.NoError(t, err)
	assert.Equal(t, `<pre><code>x</code></pre>`, out)
}

func TestChroma(t *testing.T) {
	c := NewChroma("github", false)

	out, err := c.Highlight("package main\n\nfunc main() {}\n", "go")
	require.NoError(t, err)
	assert.Contains(t, out, `class="chroma"`)
	assert.Contains(t, out, `<span class="kn">package</span>`)

	out, err = c.Highlight("<script>alert(1)</script>", "no-such-language")
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")

	assert.Contains(t, c.CSS(), ".chroma")
}

func TestChroma_LineNumbers(t *testing.T) {
	out, err := NewChroma("unknown-style", true).Highlight("echo hi\necho there\n", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, `class="ln"`)
}

var _ Highlighter = Plain{}
var _ Highlighter = (*Chroma)(nil)
