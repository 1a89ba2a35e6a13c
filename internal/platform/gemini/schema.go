package gemini

import (
	"github.com/monitize/monitize-api/internal/generation"
	"google.golang.org/genai"
)

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

// FlashcardSetSchema is the response contract for flashcard generation:
// an object with a single array-valued field.
var FlashcardSetSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"flashcards": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":    stringSchema("Short unique identifier"),
					"front": stringSchema("Question or prompt side"),
					"back":  stringSchema("Answer side"),
					"difficulty": {
						Type: genai.TypeString,
						Enum: []string{"basic", "intermediate", "advanced"},
					},
					"category": {
						Type: genai.TypeString,
						Enum: []string{"definition", "logic", "distinction", "clarification"},
					},
				},
				Required: []string{"id", "front", "back", "difficulty", "category"},
			},
		},
	},
	Required: []string{"flashcards"},
}

// OCRInterpretationSchema is the response contract for document interpretation.
var OCRInterpretationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"document_type_guess": {
			Type:     genai.TypeString,
			Nullable: genai.Ptr(true),
		},
		"confidence_note":        stringSchema("How legible the document was"),
		"extracted_text":         stringSchema("Visible text, transcribed faithfully"),
		"simplified_explanation": stringSchema("Plain-language explanation"),
		"key_terms": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"term":    stringSchema("Financial term"),
					"meaning": stringSchema("Short meaning"),
				},
				Required: []string{"term", "meaning"},
			},
		},
		"learning_notes": stringSchema("Study pointers"),
		"limitations":    stringSchema("What could not be read or relied on"),
	},
	Required: []string{
		"confidence_note", "extracted_text", "simplified_explanation",
		"key_terms", "learning_notes", "limitations",
	},
}

var schemas = map[generation.Schema]*genai.Schema{
	generation.SchemaFlashcards: FlashcardSetSchema,
	generation.SchemaOCR:        OCRInterpretationSchema,
}
