// Package domain defines the core entities of the Monitize sandbox: tool
// requests, the structured responses the language model returns for them,
// and the audit entries that make up a learner's activity log.
//
// Types in this package carry no transport or storage concerns. Validation
// lives next to each entity so every boundary (HTTP decoding, model response
// parsing, storage reads) applies the same rules.
package domain
