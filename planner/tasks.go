package planner

import (
	"fmt"

	"github.com/hupe1980/eventcrew/crew"
	"github.com/hupe1980/eventcrew/internal/util"
)

// Task names, also used as crew state keys (<name>_output).
const (
	VenueTask     = "venue_task"
	LogisticsTask = "logistics_task"
	MarketingTask = "marketing_task"
)

const (
	venueDescription = "Find a venue in {{.event_city}} " +
		"that meets criteria for {{.event_topic}}. " +
		"The venue should accommodate {{.expected_participants}} participants " +
		"and fit within a budget of ${{.budget}}. " +
		"Preferred venue type: {{.venue_type}}."

	venueExpectedOutput = "Detailed venue information including name, full address, capacity, and booking status in JSON format."

	logisticsDescription = "Coordinate catering and equipment for the {{.event_topic}} " +
		"with {{.expected_participants}} participants " +
		"on {{.tentative_date}}. " +
		"Budget: ${{.budget}}. " +
		"Ensure all catering, audio-visual equipment, seating, and technical requirements are arranged."

	logisticsExpectedOutput = "Complete confirmation of all logistics arrangements including catering menu, equipment list, setup timeline, and vendor contacts."

	marketingDescription = "Create a comprehensive marketing strategy for the {{.event_topic}}. " +
		"Target: {{.expected_participants}} attendees. " +
		"Event description: {{.event_description}}. " +
		"Location: {{.event_city}}. Date: {{.tentative_date}}. " +
		"Develop promotional content, social media strategy, email campaigns, and partnership opportunities."

	marketingExpectedOutput = "Detailed marketing report in markdown format with promotional strategies, content calendar, social media plan, and engagement tactics."
)

// NewTasks interpolates the three task descriptions from d and assigns them
// to the crew members in order venue, logistics, marketing.
func NewTasks(d EventDetails, agents Agents) ([]crew.Task, error) {
	data := d.TemplateData()

	specs := []struct {
		name, description, expected string
		worker                      crew.Worker
	}{
		{VenueTask, venueDescription, venueExpectedOutput, agents.Venue},
		{LogisticsTask, logisticsDescription, logisticsExpectedOutput, agents.Logistics},
		{MarketingTask, marketingDescription, marketingExpectedOutput, agents.Marketing},
	}

	tasks := make([]crew.Task, 0, len(specs))
	for _, s := range specs {
		desc, err := util.RenderTemplate(s.description, data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", s.name, err)
		}

		tasks = append(tasks, crew.Task{
			Name:           s.name,
			Description:    desc,
			ExpectedOutput: s.expected,
			Agent:          s.worker,
		})
	}

	return tasks, nil
}
