package models

// EvidenceType classifies an evidence item
type EvidenceType string

const (
	EvidenceDocument  EvidenceType = "documents"
	EvidencePhoto     EvidenceType = "photos"
	EvidenceTestimony EvidenceType = "testimony"
	EvidenceOther     EvidenceType = "other"
)

// ValidEvidenceType reports whether t is one of the accepted kinds
func ValidEvidenceType(t EvidenceType) bool {
	switch t {
	case EvidenceDocument, EvidencePhoto, EvidenceTestimony, EvidenceOther:
		return true
	}
	return false
}

// Witness is a repeated sub-record of the intake form
type Witness struct {
	Name      string `json:"name"`
	Relation  string `json:"relation"`
	Knowledge string `json:"knowledge"`
}

// EvidenceItem is a repeated sub-record of the intake form
type EvidenceItem struct {
	Type             EvidenceType `json:"type"`
	Description      string       `json:"description"`
	AttachedFileName string       `json:"attached_file_name,omitempty"`
}

// CaseIntakeForm collects case facts across the four intake stages.
// Transient: discarded once converted into an advisor request.
type CaseIntakeForm struct {
	// Stage 1: Basics
	CaseTitle     string `json:"case_title"`
	PlaintiffName string `json:"plaintiff_name"`
	DefendantName string `json:"defendant_name"`
	CaseType      string `json:"case_type"`
	State         string `json:"state"`
	City          string `json:"city"`

	// Stage 2: Facts
	CauseDate    string `json:"cause_date,omitempty"`
	Description  string `json:"description"`
	ReliefSought string `json:"relief_sought,omitempty"`
	SuitValue    string `json:"suit_value,omitempty"`
	PriorActions string `json:"prior_actions,omitempty"`

	// Stage 3: Evidence
	Witnesses []Witness      `json:"witnesses,omitempty"`
	Evidence  []EvidenceItem `json:"evidence,omitempty"`
}
