// Package assistant implements the prompt/response contract between the
// Monitize learning tools and the generative model.
//
// Every operation is total: it returns a domain.Result instead of an error.
// Input guards reject blank input without calling the model, and every model
// or parsing failure is converted into a fixed notice (plus an empty
// flashcard set for flashcard generation). Text outputs are stripped of
// markdown, structured outputs are validated before they are returned, and
// each success emits an activity event.
package assistant
