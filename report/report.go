// Package report renders the two artifacts produced by every planning run:
// the venue details JSON document and the marketing strategy markdown.
package report

import (
	"github.com/shopspring/decimal"
)

// Artifact names under which a run's reports are stored.
const (
	VenueArtifact     = "venue_details.json"
	MarketingArtifact = "marketing_report.md"
)

// EventDetails are the planning parameters of a run, without credentials.
type EventDetails struct {
	Topic                string          `json:"event_topic"`
	Description          string          `json:"event_description"`
	City                 string          `json:"event_city"`
	TentativeDate        string          `json:"tentative_date"`
	ExpectedParticipants int             `json:"expected_participants"`
	Budget               decimal.Decimal `json:"budget"`
	VenueType            string          `json:"venue_type"`
}

// TemplateData exposes the details as a template/prompt data map.
func (d EventDetails) TemplateData() map[string]any {
	return map[string]any{
		"event_topic":           d.Topic,
		"event_description":     d.Description,
		"event_city":            d.City,
		"tentative_date":        d.TentativeDate,
		"expected_participants": d.ExpectedParticipants,
		"budget":                d.Budget.String(),
		"venue_type":            d.VenueType,
	}
}
