package report

import (
	"encoding/json"
	"fmt"
)

// VenueDetails describes the venue proposed for an event.
type VenueDetails struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Capacity      int    `json:"capacity"`
	BookingStatus string `json:"booking_status"`
}

// capacityHeadroom is added to the expected participants.
const capacityHeadroom = 50

// NewVenueDetails derives the venue placeholder from the request.
func NewVenueDetails(d EventDetails) VenueDetails {
	return VenueDetails{
		Name:          "Grand Convention Center",
		Address:       fmt.Sprintf("Downtown %s", d.City),
		Capacity:      d.ExpectedParticipants + capacityHeadroom,
		BookingStatus: "Available",
	}
}

// JSON encodes v with two-space indentation.
func (v VenueDetails) JSON() ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
