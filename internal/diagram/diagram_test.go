package diagram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func TestClientSide(t *testing.T) {
	a, err := ClientSide{}.Render(context.Background(), "graph TD\n  A-->B")
	require.NoError(t, err)
	assert.True(t, a.ClientSide)
	assert.Equal(t, "<pre class=\"mermaid\">graph TD\n  A--&gt;B</pre>", a.HTML())
}

func TestKroki(t *testing.T) {
	var gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if strings.Contains(gotBody, "broken") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Syntax error in graph"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><script>alert(2)</script><g><text>A</text></g></svg>`))
	}))
	defer srv.Close()

	k := &Kroki{BaseURL: srv.URL + "/"}

	a, err := k.Render(context.Background(), "graph TD\n  A-->B")
	require.NoError(t, err)
	assert.Equal(t, "/mermaid/svg", gotPath)
	assert.Equal(t, "graph TD\n  A-->B", gotBody)
	assert.False(t, a.ClientSide)
	assert.Contains(t, a.SVG, "<svg")
	assert.Contains(t, a.SVG, "<text>A</text>")
	assert.NotContains(t, a.SVG, "script")
	assert.NotContains(t, a.SVG, "onload")
	assert.Equal(t, a.SVG, a.HTML())

	_, err = k.Render(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryRender, errors.GetCategory(err))
	assert.Contains(t, err.Error(), "Syntax error")
}

func TestSanitizeSVG(t *testing.T) {
	out, err := SanitizeSVG(strings.NewReader(`<svg><a href="javascript:evil()"><rect onclick="x()" width="1"/></a><foreignObject><div>hi</div></foreignObject></svg>`))
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, strings.ToLower(out), "foreignobject")
	assert.Contains(t, out, `width="1"`)

	_, err = SanitizeSVG(strings.NewReader("<p>not svg</p>"))
	require.Error(t, err)
}
