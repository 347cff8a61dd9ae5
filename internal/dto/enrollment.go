package dto

import "github.com/noah-isme/sma-course-gateway/internal/enrollment"

// ResolveRequest previews how free-text courses would be submitted.
type ResolveRequest struct {
	Courses string `json:"courses"`
}

// ResolveResponse is the preview outcome.
type ResolveResponse struct {
	Tokens           []string              `json:"tokens"`
	Resolution       enrollment.Resolution `json:"resolution"`
	Blocked          bool                  `json:"blocked"`
	CatalogAvailable bool                  `json:"catalog_available"`
}

// ParseResponse lists parsed records with their diagnostics.
type ParseResponse struct {
	Records      []StudentView `json:"records"`
	WarningCount int           `json:"warning_count"`
}
