// Package responses defines API response types used by the docsite HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/registry"
)

// HealthResponse represents the liveness check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Status  string `json:"status"`
	Sources int    `json:"sources"`
}

// SourcesResponse lists the enabled documentation sources in navigation order.
type SourcesResponse struct {
	Sources []SourceSummary `json:"sources"`
}

// SourceSummary is the public view of a registry entry.
type SourceSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Href  string `json:"href"`
	Repo  string `json:"repo"`
}

// NewSourceSummary projects a registry entry.
func NewSourceSummary(src registry.Source, href string) SourceSummary {
	return SourceSummary{
		ID:    src.ID,
		Title: src.Title,
		Order: src.Order,
		Href:  href,
		Repo:  src.Owner + "/" + src.Repo,
	}
}
