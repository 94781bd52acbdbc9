package diagram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const maxSVGBytes = 4 << 20

// Kroki renders mermaid source by POSTing it to {BaseURL}/mermaid/svg.
type Kroki struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// Render implements Renderer. The returned SVG is sanitised.
func (k *Kroki) Render(ctx context.Context, source string) (Artifact, error) {
	if k.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.Timeout)
		defer cancel()
	}
	url := strings.TrimRight(k.BaseURL, "/") + "/mermaid/svg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(source))
	if err != nil {
		return Artifact{}, errors.WrapError(err, errors.CategoryRender, "invalid diagram request").Build()
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "image/svg+xml")

	client := k.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Artifact{}, errors.WrapError(err, errors.CategoryRender, "diagram service unavailable").
			WithContext("url", url).Build()
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSVGBytes))
	if err != nil {
		return Artifact{}, errors.WrapError(err, errors.CategoryRender, "failed to read diagram").Build()
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return Artifact{}, errors.RenderError(fmt.Sprintf("diagram rejected (status %d): %s", resp.StatusCode, msg)).
			WithContext("status", resp.StatusCode).Build()
	}

	svg, err := SanitizeSVG(bytes.NewReader(body))
	if err != nil {
		return Artifact{}, errors.WrapError(err, errors.CategoryRender, "invalid SVG from diagram service").Build()
	}
	return Artifact{SVG: svg, Source: source}, nil
}
