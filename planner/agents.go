package planner

import (
	"github.com/hupe1980/eventcrew/agent"
	"github.com/hupe1980/eventcrew/crew"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/tool"
)

var _ crew.Worker = (*agent.ModelAgent)(nil)

// Agent names.
const (
	VenueCoordinator = "venue_coordinator"
	LogisticsManager = "logistics_manager"
	MarketingAgent   = "marketing_communications_agent"
)

// Persona is the fixed role description of one crew member.
type Persona struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
}

// Personas are the three crew members in task order.
var Personas = []Persona{
	{
		Name: VenueCoordinator,
		Role: "Venue Coordinator",
		Goal: "Identify and book an appropriate venue based on event requirements",
		Backstory: "With a keen sense of space and understanding of event logistics, " +
			"you excel at finding and securing the perfect venue that fits the event's theme, " +
			"size, and budget constraints.",
	},
	{
		Name: LogisticsManager,
		Role: "Logistics Manager",
		Goal: "Manage all logistics for the event including catering and equipment",
		Backstory: "Organized and detail-oriented, " +
			"you ensure that every logistical aspect of the event " +
			"from catering to equipment setup " +
			"is flawlessly executed to create a seamless experience.",
	},
	{
		Name: MarketingAgent,
		Role: "Marketing and Communications Agent",
		Goal: "Effectively market the event and communicate with participants",
		Backstory: "Creative and communicative, " +
			"you craft compelling messages and " +
			"engage with potential attendees " +
			"to maximize event exposure and participation.",
	},
}

// Agents holds the crew members of one run.
type Agents struct {
	Venue     *agent.ModelAgent
	Logistics *agent.ModelAgent
	Marketing *agent.ModelAgent
}

// NewAgents builds the three crew members sharing llm and tools.
func NewAgents(llm model.Model, tools []tool.Tool, optFns ...func(o *agent.ModelAgentOptions)) Agents {
	build := func(p Persona) *agent.ModelAgent {
		return agent.NewModelAgent(p.Name, llm, func(o *agent.ModelAgentOptions) {
			for _, fn := range optFns {
				fn(o)
			}
			o.Role = p.Role
			o.Goal = p.Goal
			o.Backstory = p.Backstory
			o.Tools = tools
		})
	}

	return Agents{
		Venue:     build(Personas[0]),
		Logistics: build(Personas[1]),
		Marketing: build(Personas[2]),
	}
}
