package content

import (
	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/quiz"
)

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// NotesSchema defines the JSON schema for note generation responses.
var NotesSchema = &llm.Schema{
	Name:        "note-module",
	Description: "An exhaustive NCERT-aligned study note for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"conceptOverview": map[string]any{
				"type":        "string",
				"description": "Detailed summary of the topic",
			},
			"deepDiveMechanism": map[string]any{
				"type":        "string",
				"description": "Step-by-step technical mechanism or mathematical derivation",
			},
			"keyNcertLines": stringArray("Direct verbatim lines or high-yield summary points"),
			"confusedTerms": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"term1":      map[string]any{"type": "string"},
						"term2":      map[string]any{"type": "string"},
						"difference": map[string]any{"type": "string"},
					},
					"required":             []any{"term1", "term2", "difference"},
					"additionalProperties": false,
				},
			},
			"mnemonics": stringArray("Memory aids"),
			"examTraps": stringArray("Specific tricks used in NEET/AIIMS questions"),
			"criticalData": map[string]any{
				"type":        "array",
				"description": "Numerical values, constants, or ratios",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"value": map[string]any{"type": "string"},
					},
					"required":             []any{"label", "value"},
					"additionalProperties": false,
				},
			},
		},
		"required": []any{
			"topic", "conceptOverview", "deepDiveMechanism", "keyNcertLines",
			"confusedTerms", "mnemonics", "examTraps", "criticalData",
		},
		"additionalProperties": false,
	},
}

func categoryEnum() []any {
	out := make([]any, 0, len(quiz.AllCategories()))
	for _, c := range quiz.AllCategories() {
		out = append(out, string(c))
	}
	return out
}

// QuizSchema defines the JSON schema for quiz generation responses. The
// question list is wrapped in an object because strict structured output
// requires an object at the root.
var QuizSchema = &llm.Schema{
	Name:        "mcq-set",
	Description: "A set of NEET-level multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "0-indexed",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Granular breakdown of why other options are wrong",
						},
						"ncertReference": map[string]any{
							"type":        "string",
							"description": "Chapter and Page/Topic context",
						},
						"type": map[string]any{
							"type": "string",
							"enum": categoryEnum(),
						},
					},
					"required": []any{
						"id", "question", "options", "correctAnswer",
						"explanation", "ncertReference", "type",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// RemedialSchema defines the JSON schema for remedial plan responses.
var RemedialSchema = &llm.Schema{
	Name:        "remedial-plan",
	Description: "A correction plan targeting the weak links in a quiz attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plan":            map[string]any{"type": "string"},
			"simplifiedNotes": stringArray("Short corrective notes"),
		},
		"required":             []any{"plan", "simplifiedNotes"},
		"additionalProperties": false,
	},
}
