package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"advocateasy-backend/models"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound     = errors.New("case not found")
	ErrExchangeInFlight = errors.New("a response for this case is already in progress")
)

// CaseStore persists the full per-user case map with upsert semantics
type CaseStore interface {
	Load(ctx context.Context, email string) (models.CaseMap, error)
	Save(ctx context.Context, email string, cases models.CaseMap) error
}

// CaseService is the conversation store: an append-only log of turns per
// case with derived aggregates maintained incrementally on each append.
// Every mutation is persisted immediately; writes are serialized per user
// so a stale snapshot never overwrites a newer one.
type CaseService struct {
	store CaseStore

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inFlight map[string]bool
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// CaseWithStore sets the case persistence backend
func CaseWithStore(store CaseStore) CaseServiceOption {
	return func(s *CaseService) {
		s.store = store
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{
		locks:    make(map[string]*sync.Mutex),
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginExchange marks a case as awaiting a collaborator response. A case
// takes one exchange at a time; a second submission before EndExchange is
// rejected rather than queued.
func (s *CaseService) BeginExchange(email, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := email + "/" + caseID
	if s.inFlight[key] {
		return ErrExchangeInFlight
	}
	s.inFlight[key] = true
	return nil
}

// EndExchange releases the case for the next submission
func (s *CaseService) EndExchange(email, caseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, email+"/"+caseID)
}

// userLock returns the mutex serializing saves for one user
func (s *CaseService) userLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[email]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[email] = lock
	}
	return lock
}

// mutate loads the user's case map, applies fn, and persists the result.
// The per-user lock holds for the whole load-modify-save cycle.
func (s *CaseService) mutate(ctx context.Context, email string, fn func(cases models.CaseMap) error) error {
	if s.store == nil {
		return errors.New("case store not set")
	}

	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	cases, err := s.store.Load(ctx, email)
	if err != nil {
		return err
	}
	if cases == nil {
		cases = make(models.CaseMap)
	}

	if err := fn(cases); err != nil {
		return err
	}

	return s.store.Save(ctx, email, cases)
}

// CreateCase creates an empty case and persists it
func (s *CaseService) CreateCase(ctx context.Context, email string) (*models.Case, error) {
	newCase := &models.Case{
		ID:         uuid.New().String(),
		Title:      "New Case",
		Turns:      []models.ConversationTurn{},
		References: []models.Citation{},
		CreatedAt:  time.Now().UTC(),
	}

	err := s.mutate(ctx, email, func(cases models.CaseMap) error {
		cases[newCase.ID] = newCase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCase, nil
}

// ListCases returns the user's full case map
func (s *CaseService) ListCases(ctx context.Context, email string) (models.CaseMap, error) {
	if s.store == nil {
		return nil, errors.New("case store not set")
	}
	cases, err := s.store.Load(ctx, email)
	if err != nil {
		return nil, err
	}
	if cases == nil {
		cases = make(models.CaseMap)
	}
	return cases, nil
}

// GetCase returns one case by ID
func (s *CaseService) GetCase(ctx context.Context, email, caseID string) (*models.Case, error) {
	cases, err := s.ListCases(ctx, email)
	if err != nil {
		return nil, err
	}
	c, ok := cases[caseID]
	if !ok {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

// RenameCase sets an explicit title, overriding the derived one
func (s *CaseService) RenameCase(ctx context.Context, email, caseID, title string) error {
	return s.mutate(ctx, email, func(cases models.CaseMap) error {
		c, ok := cases[caseID]
		if !ok {
			return ErrCaseNotFound
		}
		c.Title = title
		return nil
	})
}

// DeleteCase removes a case and, with it, its turns and references
func (s *CaseService) DeleteCase(ctx context.Context, email, caseID string) error {
	return s.mutate(ctx, email, func(cases models.CaseMap) error {
		if _, ok := cases[caseID]; !ok {
			return ErrCaseNotFound
		}
		delete(cases, caseID)
		return nil
	})
}

// AppendUserTurn appends a user-authored turn. The case title is derived
// from the first user turn unless the user renamed it already.
func (s *CaseService) AppendUserTurn(ctx context.Context, email, caseID, text string) error {
	return s.mutate(ctx, email, func(cases models.CaseMap) error {
		c, ok := cases[caseID]
		if !ok {
			return ErrCaseNotFound
		}
		firstTurn := len(c.Turns) == 0
		c.Turns = append(c.Turns, models.ConversationTurn{
			Speaker: models.SpeakerUser,
			Text:    text,
		})
		if firstTurn && c.Title == "New Case" {
			c.Title = models.DeriveTitle(c.Turns)
		}
		return nil
	})
}

// AppendAssistantTurn records a successful model response: estimates the
// saved-token reward, extracts citations into the reference collection,
// and bumps the running total incrementally.
func (s *CaseService) AppendAssistantTurn(ctx context.Context, email, caseID, text string, tokensUsed, inputLength int, mode ChatMode) (int, error) {
	saved := EstimateSavedTokens(tokensUsed, inputLength, mode)

	err := s.mutate(ctx, email, func(cases models.CaseMap) error {
		c, ok := cases[caseID]
		if !ok {
			return ErrCaseNotFound
		}
		c.Turns = append(c.Turns, models.ConversationTurn{
			Speaker:      models.SpeakerAssistant,
			Text:         text,
			ResourceCost: tokensUsed,
			CreditsSaved: saved,
		})
		c.TotalCreditsSaved += saved
		c.References = MergeCitations(c.References, ScanCitations(text))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

const failureTurnText = "Sorry, I'm having trouble connecting right now. Please try again."

// AppendFailedTurn records a collaborator failure: the turn is kept with a
// zero resource cost so no input is lost, and a fixed pity award replaces
// the estimate.
func (s *CaseService) AppendFailedTurn(ctx context.Context, email, caseID string, mode ChatMode) (int, error) {
	pity := PityTokens(mode)

	err := s.mutate(ctx, email, func(cases models.CaseMap) error {
		c, ok := cases[caseID]
		if !ok {
			return ErrCaseNotFound
		}
		c.Turns = append(c.Turns, models.ConversationTurn{
			Speaker:      models.SpeakerAssistant,
			Text:         failureTurnText,
			ResourceCost: 0,
			CreditsSaved: pity,
		})
		c.TotalCreditsSaved += pity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pity, nil
}
