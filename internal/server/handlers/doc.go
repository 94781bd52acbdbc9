// Package handlers contains the HTTP handlers of the docsite server.
//
// This package provides handlers for:
//   - Rendered documentation pages and the site landing redirect
//   - The JSON API (sources, manifests, page documents)
//   - Liveness, readiness and static assets
//
// Errors are classified with the foundation/errors package and written
// through its HTTPErrorAdapter; JSON payloads come from server/responses.
package handlers
