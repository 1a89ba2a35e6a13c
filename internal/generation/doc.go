// Package generation provides the boundary between the Monitize contract
// layer and external AI/LLM services. It abstracts the details of the Gemini
// integration so the assistant service can request free text, schema
// constrained JSON or edited images without coupling to a specific vendor SDK.
package generation
