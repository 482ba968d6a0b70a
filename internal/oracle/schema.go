package oracle

// Rubric payload schemas, one per question-type family. The shapes here must
// stay in lockstep with the dispatcher's per-family payload variants.

func errorEntrySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The offending word or phrase, exactly as it appears in the response",
			},
			"position": map[string]any{
				"type":        []any{"object", "null"},
				"description": "Approximate word-index range of the error, if known",
				"properties": map[string]any{
					"start": map[string]any{"type": "integer", "minimum": 0},
					"end":   map[string]any{"type": "integer", "minimum": 0},
				},
				"required": []any{"start", "end"},
			},
			"before": map[string]any{
				"type":        "string",
				"description": "The word immediately before the error, or empty",
			},
			"after": map[string]any{
				"type":        "string",
				"description": "The word immediately after the error, or empty",
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	}
}

func errorArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": errorEntrySchema(),
	}
}

func scoreSchema(max float64) map[string]any {
	return map[string]any{
		"type":    "number",
		"minimum": 0.0,
		"maximum": max,
	}
}

// SpeakingRubricSchema is the payload schema for the speaking family.
var SpeakingRubricSchema = &Schema{
	Name:        "speaking-rubric",
	Description: "Rubric scores and error analysis for a spoken response transcript",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pronunciation": scoreSchema(20),
					"fluency":       scoreSchema(20),
					"vocabulary":    scoreSchema(20),
					"grammar":       scoreSchema(20),
					"content":       scoreSchema(20),
				},
				"required":             []any{"pronunciation", "fluency", "vocabulary", "grammar", "content"},
				"additionalProperties": false,
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of encouraging, specific feedback",
			},
			"errorAnalysis": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pronunciationErrors": errorArraySchema(),
					"grammarErrors":       errorArraySchema(),
					"vocabularyErrors":    errorArraySchema(),
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{"scores", "feedback", "errorAnalysis"},
		"additionalProperties": false,
	},
}

// WritingRubricSchema is the payload schema for the writing family.
var WritingRubricSchema = &Schema{
	Name:        "writing-rubric",
	Description: "Rubric scores and error analysis for a written response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"grammar":         scoreSchema(25),
					"vocabulary":      scoreSchema(25),
					"coherence":       scoreSchema(25),
					"taskAchievement": scoreSchema(25),
				},
				"required":             []any{"grammar", "vocabulary", "coherence", "taskAchievement"},
				"additionalProperties": false,
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of encouraging, specific feedback",
			},
			"errorAnalysis": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"grammarErrors":    errorArraySchema(),
					"spellingErrors":   errorArraySchema(),
					"vocabularyErrors": errorArraySchema(),
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{"scores", "feedback", "errorAnalysis"},
		"additionalProperties": false,
	},
}

// ListeningRubricSchema is the payload schema for the listening family.
var ListeningRubricSchema = &Schema{
	Name:        "listening-rubric",
	Description: "Rubric scores and error analysis for a listening comprehension summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"accuracy":     scoreSchema(50),
					"completeness": scoreSchema(50),
				},
				"required":             []any{"accuracy", "completeness"},
				"additionalProperties": false,
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of encouraging, specific feedback",
			},
			"errorAnalysis": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contentErrors": errorArraySchema(),
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{"scores", "feedback", "errorAnalysis"},
		"additionalProperties": false,
	},
}
