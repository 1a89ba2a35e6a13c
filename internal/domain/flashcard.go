package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Difficulty grades a flashcard.
type Difficulty string

// Supported flashcard difficulties.
const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// FlashcardCategory classifies what a flashcard tests.
type FlashcardCategory string

// Supported flashcard categories.
const (
	CategoryDefinition    FlashcardCategory = "definition"
	CategoryLogic         FlashcardCategory = "logic"
	CategoryDistinction   FlashcardCategory = "distinction"
	CategoryClarification FlashcardCategory = "clarification"
)

var validate = validator.New()

// Flashcard is a single question/answer pair produced from study content.
type Flashcard struct {
	ID         string            `json:"id"         validate:"required"`
	Front      string            `json:"front"      validate:"required"`
	Back       string            `json:"back"       validate:"required"`
	Difficulty Difficulty        `json:"difficulty" validate:"required,oneof=basic intermediate advanced"`
	Category   FlashcardCategory `json:"category"   validate:"required,oneof=definition logic distinction clarification"`
}

// FlashcardSet is the structured response of flashcard generation.
// Flashcards is never nil once a set leaves the contract layer.
type FlashcardSet struct {
	Flashcards []Flashcard `json:"flashcards" validate:"dive"`
}

// EmptyFlashcardSet returns the set used when generation fails.
func EmptyFlashcardSet() FlashcardSet {
	return FlashcardSet{Flashcards: []Flashcard{}}
}

// Validate checks every flashcard in the set.
func (s FlashcardSet) Validate() error {
	if s.Flashcards == nil {
		return fmt.Errorf("%w: flashcards field missing", ErrValidation)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Len returns the number of flashcards in the set.
func (s FlashcardSet) Len() int {
	return len(s.Flashcards)
}
