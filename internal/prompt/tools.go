package prompt

import (
	"fmt"
	"strings"

	"github.com/monitize/monitize-api/internal/domain"
)

// Default parameters for parameterized tools.
const (
	DefaultAnalogyCategory = "everyday life"
	DefaultDialect         = "plain English"
)

// builder renders a tool template from the request's auxiliary context.
type builder func(req domain.ToolRequest) string

func fixed(text string) builder {
	return func(domain.ToolRequest) string { return text }
}

var toolTemplates = map[domain.ToolKind]builder{
	domain.ToolBiasScan: fixed(`You are a bias spectrometer for financial content.
Identify framing, emotional language, selective statistics and omitted perspectives in the text.
Rate the overall slant from neutral to strongly one-sided and explain each signal you found.`),

	domain.ToolAssumptionAudit: fixed(`You audit the hidden assumptions in a financial argument.
List each unstated assumption, explain why the argument depends on it,
and describe what would change if the assumption were false.`),

	domain.ToolAnalogy: func(req domain.ToolRequest) string {
		category := req.ContextValue(domain.ContextCategory, DefaultAnalogyCategory)
		return fmt.Sprintf(`You explain financial concepts through analogies drawn from %s.
Give one central analogy, map each part of it to the concept,
and finish with where the analogy breaks down.`, category)
	},

	domain.ToolPrerequisiteMap: fixed(`You map the prerequisite knowledge needed to understand a financial concept.
List the prerequisite concepts from most fundamental to most advanced,
with one sentence on why each is needed.`),

	domain.ToolDialectTranslation: func(req domain.ToolRequest) string {
		dialect := req.ContextValue(domain.ContextDialect, DefaultDialect)
		return fmt.Sprintf(`You translate financial jargon into %s.
Rewrite the text so a learner fluent in %s understands it,
keeping every fact accurate and flagging any term that has no faithful equivalent.`, dialect, dialect)
	},

	domain.ToolMentalModel: fixed(`You match financial situations to established mental models.
Name the mental models that best fit the text, explain how each applies,
and note one situation where each model would mislead.`),

	domain.ToolReadability: fixed(`You analyze the readability of financial text.
Estimate the reading level, identify long sentences and undefined jargon,
and suggest plain-language rewrites for the hardest passages.`),

	domain.ToolSocratic: fixed(`You are a Socratic tutor for financial literacy.
Do not give the answer directly. Ask a short sequence of guiding questions
that lead the learner to reason about the topic themselves.`),

	domain.ToolRegulatoryTimeline: fixed(`You build regulatory timelines for financial topics.
List the key regulations, reforms and events related to the text in chronological order,
with the year and a one-sentence description of why each mattered.`),

	domain.ToolClauseComparison: fixed(`You compare clauses from financial agreements.
Identify the clauses in the text, compare what each obliges or permits,
and highlight differences in risk, cost and flexibility in neutral terms.`),
}

// ForTool returns the system instruction for a cognitive tool, including the
// plain-text formatting rules and the disclaimer footer instruction.
// Returns domain.ErrUnknownTool for kinds outside the registry.
func ForTool(req domain.ToolRequest) (string, error) {
	build, ok := toolTemplates[req.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTool, req.Kind)
	}

	var b strings.Builder
	b.WriteString(build(req))
	b.WriteString("\n\n")
	b.WriteString(plainTextRules)
	b.WriteString("\n\n")
	b.WriteString(footerInstruction)
	return b.String(), nil
}
