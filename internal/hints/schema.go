package hints

import "github.com/abhisek/geoquiz/internal/llm"

// HintSchema is the structured output requested for a country hint.
var HintSchema = &llm.Schema{
	Name:        "country-hint",
	Description: "A hint that helps a player recognize a country without naming it",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One or two sentences about geography, neighbours or landmarks. Never the country's name.",
			},
			"facts": map[string]any{
				"type":        "array",
				"description": "Up to three short extra clues, easiest last",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"hint", "facts"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You write hints for a geography quiz. The player is looking at a country
on a map, its flag or its name and must identify the rest. Describe where the
country is, what borders it and what it is known for. Never write the
country's name, any of its alternative names or its capital city.`
