// Package prompt holds the system instructions sent to the language model
// and the post-processing rules applied to its free-text output.
//
// Cognitive tools are a closed set: ForTool dispatches through a table keyed
// by domain.ToolKind, and every tool template ends with the same disclaimer
// footer instruction.
package prompt
