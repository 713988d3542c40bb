package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetails() EventDetails {
	return EventDetails{
		Topic:                "Tech Innovation Summit",
		Description:          "A summit on emerging tech",
		City:                 "San Francisco",
		TentativeDate:        "2025-06-15",
		ExpectedParticipants: 500,
		Budget:               decimal.RequireFromString("50000"),
		VenueType:            "Conference Hall",
	}
}

func TestNewVenueDetails(t *testing.T) {
	v := NewVenueDetails(sampleDetails())

	assert.Equal(t, "Grand Convention Center", v.Name)
	assert.Equal(t, "Downtown San Francisco", v.Address)
	assert.Equal(t, 550, v.Capacity)
	assert.Equal(t, "Available", v.BookingStatus)

	raw, err := v.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(550), decoded["capacity"])
	assert.Equal(t, "Available", decoded["booking_status"])
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"name\""))
}

func TestNewVenueDetails_CapacityFollowsParticipants(t *testing.T) {
	for _, n := range []int{0, 1, 120, 10000} {
		d := sampleDetails()
		d.ExpectedParticipants = n
		assert.Equal(t, n+50, NewVenueDetails(d).Capacity)
	}
}

func TestRenderMarketingReport(t *testing.T) {
	md, err := RenderMarketingReport(sampleDetails())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Marketing Strategy for Tech Innovation Summit\n"))
	for _, want := range []string{
		"## Event Overview",
		"- **Location**: San Francisco",
		"- **Date**: 2025-06-15",
		"- **Expected Attendees**: 500",
		"Create event hashtag: #TechInnovationSummit",
		"## Timeline",
		"- Target: 500 registrations",
		"## Budget Allocation",
		"- Social Media Ads: 40% ($20000.00)",
		"- Email Marketing: 20% ($10000.00)",
		"- Content Creation: 25% ($12500.00)",
		"- Partnerships: 15% ($7500.00)",
	} {
		assert.Contains(t, md, want)
	}
}

func TestBudgetShare_Amount(t *testing.T) {
	budget := decimal.RequireFromString("999.99")

	total := decimal.Zero
	for _, s := range MarketingBudgetSplit {
		total = total.Add(decimal.NewFromInt(s.Percent))
	}
	assert.True(t, total.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, "400.00", MarketingBudgetSplit[0].Amount(budget).StringFixed(2))
	assert.Equal(t, "150.00", MarketingBudgetSplit[3].Amount(budget).StringFixed(2))
}

func TestTemplateData(t *testing.T) {
	data := sampleDetails().TemplateData()
	assert.Equal(t, "50000", data["budget"])
	assert.Equal(t, 500, data["expected_participants"])
}
