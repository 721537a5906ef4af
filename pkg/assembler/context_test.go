package assembler_test

import (
	"strings"
	"testing"

	"github.com/narrativekit/kb/pkg/assembler"
)

func TestAssembledContextToPromptString(t *testing.T) {
	title := "The Brave"
	ctx := &assembler.AssembledContext{
		EventDescription: "Hero enters the dark forest",
		RelevantFacts: []string{
			"The forest is haunted",
			"Dangerous creatures lurk within",
		},
		WorldContext: assembler.WorldContext{
			TimeOfDay: "22:00",
			Day:       42,
			Season:    "autumn",
			Weather:   "foggy",
			IsNight:   true,
		},
		CharacterContext: []assembler.CharacterContext{
			{
				Name:             "Hero",
				Title:            &title,
				CurrentHPPercent: 80,
				ActiveStatuses:   nil,
				Personality:      []string{"brave"},
			},
		},
	}

	prompt := ctx.ToPromptString()

	for _, want := range []string{
		"Hero enters the dark forest",
		"22:00",
		"Night",
		"forest is haunted",
		"HP 80%",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q, got:\n%s", want, prompt)
		}
	}
}

func TestAssembledContextToPromptStringOmitsEmptySections(t *testing.T) {
	ctx := &assembler.AssembledContext{
		EventDescription: "Nothing happens",
		WorldContext:     assembler.WorldContext{TimeOfDay: "08:00", Weather: "clear"},
	}

	prompt := ctx.ToPromptString()

	if strings.Contains(prompt, "## Involved Characters") {
		t.Error("prompt should omit Involved Characters section when empty")
	}
	if strings.Contains(prompt, "## Relevant Background") {
		t.Error("prompt should omit Relevant Background section when empty")
	}
}
