package domain

import (
	"fmt"
	"strings"
)

// ToolKind identifies one of the cognitive tools offered in the sandbox.
type ToolKind string

// Supported tool kinds.
const (
	ToolBiasScan           ToolKind = "bias_scan"
	ToolAssumptionAudit    ToolKind = "assumption_audit"
	ToolAnalogy            ToolKind = "analogy"
	ToolPrerequisiteMap    ToolKind = "prerequisite_map"
	ToolDialectTranslation ToolKind = "dialect_translation"
	ToolMentalModel        ToolKind = "mental_model"
	ToolReadability        ToolKind = "readability"
	ToolSocratic           ToolKind = "socratic"
	ToolRegulatoryTimeline ToolKind = "regulatory_timeline"
	ToolClauseComparison   ToolKind = "clause_comparison"
)

// Context keys understood by parameterized tools.
const (
	ContextCategory = "category"
	ContextDialect  = "dialect"
)

// ToolKinds lists every supported tool kind in display order.
func ToolKinds() []ToolKind {
	return []ToolKind{
		ToolBiasScan,
		ToolAssumptionAudit,
		ToolAnalogy,
		ToolPrerequisiteMap,
		ToolDialectTranslation,
		ToolMentalModel,
		ToolReadability,
		ToolSocratic,
		ToolRegulatoryTimeline,
		ToolClauseComparison,
	}
}

// ParseToolKind converts a raw identifier into a ToolKind.
// Returns ErrUnknownTool if the identifier is not supported.
func ParseToolKind(raw string) (ToolKind, error) {
	kind := ToolKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range ToolKinds() {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, raw)
}

// ToolRequest is a single learner action against a cognitive tool.
// It is transient: created per request and discarded after the response.
type ToolRequest struct {
	Kind    ToolKind
	Input   string
	Context map[string]string
}

// ContextValue returns the trimmed auxiliary parameter stored under key,
// or fallback when it is absent or blank.
func (r ToolRequest) ContextValue(key, fallback string) string {
	if r.Context == nil {
		return fallback
	}
	v := strings.TrimSpace(r.Context[key])
	if v == "" {
		return fallback
	}
	return v
}

// ImageInput is an uploaded or captured document image.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// Validate checks that the image carries bytes and a MIME type.
func (i ImageInput) Validate() error {
	if len(i.Data) == 0 {
		return fmt.Errorf("%w: no image data", ErrInvalidImage)
	}
	if strings.TrimSpace(i.MIMEType) == "" {
		return fmt.Errorf("%w: missing MIME type", ErrInvalidImage)
	}
	return nil
}
