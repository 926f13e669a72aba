package model

import "strings"

// EmailType is the classification tag emitted by the model. The closed set
// below is what the classification prompt asks for; the pipeline stores the
// trimmed model output verbatim, so values outside the set can occur and fall
// through to the default prompt branch.
type EmailType string

const (
	TypeDevis       EmailType = "DEVIS"
	TypeRelance     EmailType = "RELANCE_PAIEMENT"
	TypeInformation EmailType = "INFORMATION"
	TypeReclamation EmailType = "RECLAMATION"
	TypeAutre       EmailType = "AUTRE"
)

func (t EmailType) String() string { return string(t) }

func (t EmailType) Known() bool {
	switch t {
	case TypeDevis, TypeRelance, TypeInformation, TypeReclamation, TypeAutre:
		return true
	default:
		return false
	}
}

// ParseEmailType trims a raw model tag. No case folding: the classification
// prompt asks for the uppercase tags, and anything else is treated as an
// out-of-set tag.
func ParseEmailType(s string) EmailType {
	return EmailType(strings.TrimSpace(s))
}

// InboundEmail is the client-submitted email to analyze. All three fields
// are required.
type InboundEmail struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (e InboundEmail) Complete() bool {
	return strings.TrimSpace(e.From) != "" &&
		strings.TrimSpace(e.Subject) != "" &&
		strings.TrimSpace(e.Body) != ""
}
