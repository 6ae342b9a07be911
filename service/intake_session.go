package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"advocateasy-backend/models"
)

// IntakeStage identifies a step of the case intake flow
type IntakeStage int

const (
	StageBasics IntakeStage = iota + 1
	StageFacts
	StageEvidence
	StageAnalysis
)

// String returns the stage name
func (s IntakeStage) String() string {
	switch s {
	case StageBasics:
		return "basics"
	case StageFacts:
		return "facts"
	case StageEvidence:
		return "evidence"
	case StageAnalysis:
		return "analysis"
	}
	return "unknown"
}

const minDescriptionLength = 10

// FieldErrors maps form field names to validation messages
type FieldErrors map[string]string

var (
	ErrValidation         = errors.New("intake validation failed")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrWrongStage         = errors.New("operation not allowed in current stage")
)

// IntakeSession drives the 4-stage intake flow: Basics, Facts, Evidence,
// Analysis. Transitions are linear; backward navigation steps to the
// immediate predecessor only. The only external effect is the single
// advisor call made when entering Analysis.
type IntakeSession struct {
	mu       sync.Mutex
	stage    IntakeStage
	form     models.CaseIntakeForm
	advisor  *AdvisorService
	result   *AnalysisResult
	inFlight bool
}

// NewIntakeSession creates a session positioned at the Basics stage
func NewIntakeSession(advisor *AdvisorService) *IntakeSession {
	return &IntakeSession{
		stage:   StageBasics,
		advisor: advisor,
	}
}

// Stage returns the current stage
func (s *IntakeSession) Stage() IntakeStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Form returns a snapshot of the accumulated form fields
func (s *IntakeSession) Form() models.CaseIntakeForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Result returns the analysis produced by a successful submission
func (s *IntakeSession) Result() *AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetBasics stores stage-1 identity fields. Values are kept even when
// invalid so nothing the user typed is lost.
func (s *IntakeSession) SetBasics(caseTitle, plaintiff, defendant, caseType, state, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.CaseTitle = caseTitle
	s.form.PlaintiffName = plaintiff
	s.form.DefendantName = defendant
	s.form.CaseType = caseType
	s.form.State = state
	s.form.City = city
}

// SetFacts stores stage-2 incident fields
func (s *IntakeSession) SetFacts(description, causeDate, reliefSought, suitValue, priorActions string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Description = description
	s.form.CauseDate = causeDate
	s.form.ReliefSought = reliefSought
	s.form.SuitValue = suitValue
	s.form.PriorActions = priorActions
}

// AddWitness appends an empty-or-filled witness record. Allowed only in
// the Evidence stage.
func (s *IntakeSession) AddWitness(w models.Witness) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageEvidence {
		return ErrWrongStage
	}
	s.form.Witnesses = append(s.form.Witnesses, w)
	return nil
}

// RemoveWitness removes the witness at index, renumbering the rest
func (s *IntakeSession) RemoveWitness(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageEvidence {
		return ErrWrongStage
	}
	if index < 0 || index >= len(s.form.Witnesses) {
		return fmt.Errorf("witness index %d out of range", index)
	}
	s.form.Witnesses = append(s.form.Witnesses[:index], s.form.Witnesses[index+1:]...)
	return nil
}

// AddEvidence appends an evidence item. Allowed only in the Evidence stage.
func (s *IntakeSession) AddEvidence(e models.EvidenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageEvidence {
		return ErrWrongStage
	}
	s.form.Evidence = append(s.form.Evidence, e)
	return nil
}

// RemoveEvidence removes the evidence item at index
func (s *IntakeSession) RemoveEvidence(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageEvidence {
		return ErrWrongStage
	}
	if index < 0 || index >= len(s.form.Evidence) {
		return fmt.Errorf("evidence index %d out of range", index)
	}
	s.form.Evidence = append(s.form.Evidence[:index], s.form.Evidence[index+1:]...)
	return nil
}

// Back moves to the immediate predecessor stage. No-op at Basics and
// while an analysis call is in flight.
func (s *IntakeSession) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight || s.stage <= StageBasics {
		return
	}
	s.stage--
}

// Reset discards all transient form fields and returns to Basics.
// Already-persisted cases are unaffected.
func (s *IntakeSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return
	}
	s.form = models.CaseIntakeForm{}
	s.result = nil
	s.stage = StageBasics
}

// Advance validates the current stage and moves forward. On validation
// failure the stage is unchanged and the field-level errors are returned
// with ErrValidation. Advancing from Evidence submits the whole form to
// the advisor; on collaborator failure the session returns to Evidence
// with every entered value intact.
func (s *IntakeSession) Advance(ctx context.Context) (FieldErrors, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrAnalysisInProgress
	}

	switch s.stage {
	case StageBasics:
		if errs := validateBasics(&s.form); len(errs) > 0 {
			s.mu.Unlock()
			return errs, ErrValidation
		}
		s.stage = StageFacts
		s.mu.Unlock()
		return nil, nil

	case StageFacts:
		if errs := validateFacts(&s.form); len(errs) > 0 {
			s.mu.Unlock()
			return errs, ErrValidation
		}
		s.stage = StageEvidence
		s.mu.Unlock()
		return nil, nil

	case StageEvidence:
		if errs := validateEvidence(&s.form); len(errs) > 0 {
			s.mu.Unlock()
			return errs, ErrValidation
		}
		// Enter the Analysis loading sub-state. The lock flag rejects a
		// second submission until this one resolves.
		s.stage = StageAnalysis
		s.inFlight = true
		form := s.form
		advisor := s.advisor
		s.mu.Unlock()

		result, err := advisor.Analyze(ctx, &form)

		s.mu.Lock()
		s.inFlight = false
		if err != nil {
			// Return to Evidence so the user can retry without
			// re-entering anything.
			s.stage = StageEvidence
			s.mu.Unlock()
			return nil, err
		}
		s.result = result
		s.mu.Unlock()
		return nil, nil

	default:
		s.mu.Unlock()
		return nil, fmt.Errorf("cannot advance from stage %s", s.stage)
	}
}

func validateBasics(form *models.CaseIntakeForm) FieldErrors {
	errs := FieldErrors{}
	required := map[string]string{
		"case_title":     form.CaseTitle,
		"plaintiff_name": form.PlaintiffName,
		"defendant_name": form.DefendantName,
		"case_type":      form.CaseType,
		"state":          form.State,
		"city":           form.City,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "This field is required"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateFacts(form *models.CaseIntakeForm) FieldErrors {
	if len(strings.TrimSpace(form.Description)) < minDescriptionLength {
		return FieldErrors{
			"description": fmt.Sprintf("Please describe what happened (at least %d chars)", minDescriptionLength),
		}
	}
	return nil
}

func validateEvidence(form *models.CaseIntakeForm) FieldErrors {
	errs := FieldErrors{}
	for i, w := range form.Witnesses {
		if strings.TrimSpace(w.Name) == "" {
			errs[fmt.Sprintf("witnesses.%d.name", i)] = "Witness Name is required"
		}
		if strings.TrimSpace(w.Relation) == "" {
			errs[fmt.Sprintf("witnesses.%d.relation", i)] = "Relation is required"
		}
		if strings.TrimSpace(w.Knowledge) == "" {
			errs[fmt.Sprintf("witnesses.%d.knowledge", i)] = "Knowledge is required"
		}
	}
	for i, e := range form.Evidence {
		if !models.ValidEvidenceType(e.Type) {
			errs[fmt.Sprintf("evidence.%d.type", i)] = "Evidence type is invalid"
		}
		if strings.TrimSpace(e.Description) == "" {
			errs[fmt.Sprintf("evidence.%d.description", i)] = "Evidence Description is required"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
