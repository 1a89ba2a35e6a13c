package domain

import "fmt"

// KeyTerm is a term found in a document together with a plain-language meaning.
type KeyTerm struct {
	Term    string `json:"term"    validate:"required"`
	Meaning string `json:"meaning" validate:"required"`
}

// OCRInterpretation is the structured reading of a photographed document.
// It is all-or-nothing: a response missing any required field is discarded.
type OCRInterpretation struct {
	DocumentTypeGuess     *string   `json:"document_type_guess"`
	ConfidenceNote        string    `json:"confidence_note"        validate:"required"`
	ExtractedText         string    `json:"extracted_text"         validate:"required"`
	SimplifiedExplanation string    `json:"simplified_explanation" validate:"required"`
	KeyTerms              []KeyTerm `json:"key_terms"              validate:"required,dive"`
	LearningNotes         string    `json:"learning_notes"         validate:"required"`
	Limitations           string    `json:"limitations"            validate:"required"`
}

// Validate checks that every required field of the interpretation is present.
func (o *OCRInterpretation) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: interpretation is nil", ErrValidation)
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
