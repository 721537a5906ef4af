package assembler

import (
	"fmt"
	"strings"

	"github.com/narrativekit/kb/pkg/activation"
)

// WorldContext summarizes the parts of world state a prompt cares about.
type WorldContext struct {
	TimeOfDay string
	Day       uint32
	Season    string
	Weather   Weather
	IsNight   bool
}

// CharacterContext summarizes one involved character for a prompt.
type CharacterContext struct {
	Name             string
	Title            *string
	CurrentHPPercent uint32
	ActiveStatuses   []string
	Personality      []string
}

// AssembledContext is the structured output of AssembleContext: plain
// data, with no dependency on any particular LLM provider's wire
// format. Callers that want a single string call ToPromptString.
type AssembledContext struct {
	EventDescription string
	RelevantFacts    []string
	WorldContext     WorldContext
	CharacterContext []CharacterContext
	ActivatedTags    []activation.TagEnergy
}

// ToPromptString renders the context as a Markdown-like block: a
// "## Current Event" section, a "## World State" section, then
// "## Involved Characters" and "## Relevant Background" sections that
// are omitted entirely when empty.
func (c *AssembledContext) ToPromptString() string {
	var sb strings.Builder

	sb.WriteString("## Current Event\n")
	sb.WriteString(c.EventDescription)
	sb.WriteString("\n\n")

	sb.WriteString("## World State\n")
	dayOrNight := "Day"
	if c.WorldContext.IsNight {
		dayOrNight = "Night"
	}
	fmt.Fprintf(&sb, "Time: %s (Day %d), %s %s\n\n",
		c.WorldContext.TimeOfDay, c.WorldContext.Day, dayOrNight, c.WorldContext.Weather)

	if len(c.CharacterContext) > 0 {
		sb.WriteString("## Involved Characters\n")
		for _, char := range c.CharacterContext {
			title := ""
			if char.Title != nil {
				title = ", " + *char.Title
			}
			conditions := "None"
			if len(char.ActiveStatuses) > 0 {
				conditions = strings.Join(char.ActiveStatuses, ", ")
			}
			fmt.Fprintf(&sb, "- %s%s: HP %d%%, Conditions: %s\n", char.Name, title, char.CurrentHPPercent, conditions)
		}
		sb.WriteString("\n")
	}

	if len(c.RelevantFacts) > 0 {
		sb.WriteString("## Relevant Background\n")
		for _, fact := range c.RelevantFacts {
			fmt.Fprintf(&sb, "- %s\n", fact)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
