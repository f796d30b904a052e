package documents

import "strings"

// Document type labels produced by Classify. The label is used only as a
// string during requirement relevance matching.
const (
	TypeUnknown            = "unknown"
	TypeInvoice            = "invoice"
	TypePolicyRequirements = "policy_requirements"
	TypeAuditRFI           = "audit_rfi"
	TypeProjectData        = "project_data"
	TypeChecklist          = "checklist"
)

// rule pairs a label with the indicator terms that select it. Rules are
// ordered: more specific indicators are checked before generic ones.
type rule struct {
	label string
	terms []string
}

var filenameRules = []string{"policy", "policies", "requirement"}

var contentRules = []rule{
	{TypeInvoice, []string{"invoice", "payment", "amount", "total", "bill"}},
	{TypePolicyRequirements, []string{"policy document", "security policy", "password policy"}},
	{TypeAuditRFI, []string{"questionnaire", "audit", "assessment", "response"}},
	{TypeProjectData, []string{"project", "timeline", "milestone", "deliverable"}},
	{TypeChecklist, []string{"checklist", "verify", "confirmation"}},
	{TypePolicyRequirements, []string{"policy", "requirement", "regulation", "compliance"}},
}

// Classify assigns a type label from filename and content indicators.
// Documents with no content classify as unknown.
func Classify(d Document) string {
	if d.Content == "" {
		return TypeUnknown
	}

	filename := strings.ToLower(d.Filename)
	for _, term := range filenameRules {
		if strings.Contains(filename, term) {
			return TypePolicyRequirements
		}
	}

	content := strings.ToLower(d.Content)
	for _, r := range contentRules {
		for _, term := range r.terms {
			if strings.Contains(content, term) {
				return r.label
			}
		}
	}

	return TypeUnknown
}
