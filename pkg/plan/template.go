// Package plan builds personalized lesson plans by driving a staged
// workflow over the planweave engine: fetch the student's context,
// recommend and resolve a template, then loop over the template's stages
// collecting human-approved activities for each.
package plan

import "strings"

// Template identifies a lesson-plan structure from the fixed catalog.
type Template string

const (
	TemplateFiveE   Template = "5E"
	TemplateSevenE  Template = "7E"
	TemplatePBL     Template = "PBL"
	TemplateDynamic Template = "DYNAMIC"
)

// DefaultTemplate is substituted whenever a template cannot be resolved,
// whether from an unrecognized human override or a failed recommendation.
const DefaultTemplate = TemplateFiveE

// TemplateOptions is the fixed catalog presented to the operator.
var TemplateOptions = []string{"5E", "7E", "PBL", "DYNAMIC"}

// ParseTemplate normalizes a free-text template name. Unrecognized input
// returns DefaultTemplate and false.
func ParseTemplate(s string) (Template, bool) {
	switch Template(strings.ToUpper(strings.TrimSpace(s))) {
	case TemplateFiveE:
		return TemplateFiveE, true
	case TemplateSevenE:
		return TemplateSevenE, true
	case TemplatePBL:
		return TemplatePBL, true
	case TemplateDynamic:
		return TemplateDynamic, true
	}
	return DefaultTemplate, false
}

// FallbackStages is the hardcoded stage sequence used when the template
// definition cannot be fetched. DYNAMIC has no fixed stages.
func (t Template) FallbackStages() []string {
	switch t {
	case TemplateFiveE:
		return []string{"Engage", "Explore", "Explain", "Elaborate", "Evaluate"}
	case TemplateSevenE:
		return []string{"Elicit", "Engage", "Explore", "Explain", "Elaborate", "Evaluate", "Extend"}
	case TemplatePBL:
		return []string{"Challenge", "Investigate", "Create", "Debrief"}
	default:
		return nil
	}
}
