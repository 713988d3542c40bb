package report

import (
	"fmt"

	"github.com/hupe1980/eventcrew/internal/util"
	"github.com/shopspring/decimal"
)

// BudgetShare is one line of the marketing budget allocation.
type BudgetShare struct {
	Channel string
	Percent int64
}

// MarketingBudgetSplit is the fixed allocation of the marketing budget.
var MarketingBudgetSplit = []BudgetShare{
	{Channel: "Social Media Ads", Percent: 40},
	{Channel: "Email Marketing", Percent: 20},
	{Channel: "Content Creation", Percent: 25},
	{Channel: "Partnerships", Percent: 15},
}

var hundred = decimal.NewFromInt(100)

// Amount returns the share of budget, rounded to cents.
func (s BudgetShare) Amount(budget decimal.Decimal) decimal.Decimal {
	return budget.Mul(decimal.NewFromInt(s.Percent)).Div(hundred).Round(2)
}

const marketingTemplate = `# Marketing Strategy for {{.event_topic}}

## Event Overview
- **Event**: {{.event_topic}}
- **Location**: {{.event_city}}
- **Date**: {{.tentative_date}}
- **Expected Attendees**: {{.expected_participants}}

## Marketing Channels

### 1. Social Media Campaign
- Launch teaser campaign 6 weeks before event
- Create event hashtag: #{{nospace .event_topic}}
- Daily posts on LinkedIn, Twitter, and Facebook
- Partner with industry influencers

### 2. Email Marketing
- Send save-the-date emails to target audience
- Weekly newsletter with speaker announcements
- Personalized invitations to VIP guests
- Reminder emails 2 weeks, 1 week, and 1 day before event

### 3. Content Marketing
- Publish blog posts about event topics
- Create video teasers featuring speakers
- Share behind-the-scenes preparation content
- Develop infographics highlighting key sessions

### 4. Partnership & Sponsorship
- Reach out to industry partners for co-promotion
- Secure media partnerships for wider coverage
- Collaborate with local tech communities
- Engage with corporate sponsors for promotional support

## Timeline
- **Week 1-2**: Launch announcement and early bird registration
- **Week 3-4**: Speaker reveals and agenda publication
- **Week 5-6**: Intensive social media push
- **Week 7-8**: Final registration push and last-minute promotions

## Success Metrics
- Target: {{.expected_participants}} registrations
- Social media reach: 50,000+ impressions
- Email open rate: 35%+
- Website visits: 10,000+

## Budget Allocation
{{range .budget_lines}}- {{.}}
{{end}}`

// RenderMarketingReport renders the marketing strategy markdown for d.
func RenderMarketingReport(d EventDetails) (string, error) {
	lines := make([]any, 0, len(MarketingBudgetSplit))
	for _, share := range MarketingBudgetSplit {
		lines = append(lines, fmt.Sprintf("%s: %d%% ($%s)", share.Channel, share.Percent, share.Amount(d.Budget).StringFixed(2)))
	}

	data := d.TemplateData()
	data["budget_lines"] = lines

	out, err := util.RenderTemplate(marketingTemplate, data)
	if err != nil {
		return "", fmt.Errorf("failed to render marketing report: %w", err)
	}

	return out, nil
}
