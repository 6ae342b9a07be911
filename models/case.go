package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// CitationKind distinguishes hyperlink citations from statutory mentions
type CitationKind string

const (
	CitationLink    CitationKind = "link"
	CitationStatute CitationKind = "act"
)

// Citation is a structured reference extracted from assistant text.
// Target is non-empty only for link citations.
type Citation struct {
	Kind   CitationKind `json:"kind"`
	Title  string       `json:"title"`
	Target string       `json:"target,omitempty"`
}

// Speaker identifies the author of a conversation turn
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "model"
)

// ConversationTurn is one message exchange unit within a case.
// Immutable once appended.
type ConversationTurn struct {
	Speaker      Speaker `json:"speaker"`
	Text         string  `json:"text"`
	ResourceCost int     `json:"resource_cost,omitempty"`
	CreditsSaved int     `json:"credits_saved,omitempty"`
}

// Case is a persisted, named conversation thread between a user and the
// advisor, with accumulated saved credits and extracted references.
type Case struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Turns             []ConversationTurn `json:"turns"`
	TotalCreditsSaved int                `json:"total_credits_saved"`
	References        []Citation         `json:"references"`
	CreatedAt         time.Time          `json:"created_at"`
}

// CaseMap is the full per-user case collection, persisted as a single
// JSONB document keyed by case ID.
type CaseMap map[string]*Case

// Value implements driver.Valuer for JSONB
func (m CaseMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *CaseMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(CaseMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*m = make(CaseMap)
		return nil
	}

	if len(bytes) == 0 {
		*m = make(CaseMap)
		return nil
	}

	return json.Unmarshal(bytes, m)
}

const derivedTitleLimit = 30

// DeriveTitle returns a short display title taken from the first user
// turn's leading text. Used until the user renames the case explicitly.
func DeriveTitle(turns []ConversationTurn) string {
	for _, t := range turns {
		if t.Speaker != SpeakerUser {
			continue
		}
		text := strings.TrimSpace(t.Text)
		if text == "" {
			break
		}
		if runes := []rune(text); len(runes) > derivedTitleLimit {
			return string(runes[:derivedTitleLimit]) + "..."
		}
		return text
	}
	return "New Case"
}
