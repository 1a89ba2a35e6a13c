// Package gemini provides an implementation of the generation.Model interface
// that uses Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the contract layer to Google's external Gemini AI service.
// It translates generation requests into genai contents and configuration
// without exposing the details of the external service to the core application.
//
// Key components:
//
// 1. GeminiModel:
//   - Implements the generation.Model interface
//   - Sends system instructions, text and inline images in one call
//   - Requests application/json output with a response schema when asked
//
// 2. Response schemas:
//   - FlashcardSet and OCRInterpretation contracts as genai.Schema values
//
// 3. Error handling:
//   - Maps empty responses, missing candidates and safety blocks to
//     generation sentinel errors
//   - No retries: a failed call is reported once and the caller decides
//     what the learner sees
package gemini
