package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"advocateasy-backend/models"
	"advocateasy-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserEmail = "asha@example.com"

// stubGenerator is an in-memory TextGenerator for handler tests
type stubGenerator struct {
	result  *service.GenerationResult
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, req service.GenerationRequest) (*service.GenerationResult, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

// stubCaseStore round-trips case maps through their JSONB encoding so a
// failed save leaves persisted state untouched.
type stubCaseStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	saves      int
	failOnSave int // 1-based save ordinal to fail, 0 never
}

func newStubCaseStore() *stubCaseStore {
	return &stubCaseStore{data: make(map[string][]byte)}
}

func (s *stubCaseStore) Load(ctx context.Context, email string) (models.CaseMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cases := make(models.CaseMap)
	raw, ok := s.data[email]
	if !ok {
		return cases, nil
	}
	if err := cases.Scan(raw); err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *stubCaseStore) Save(ctx context.Context, email string, cases models.CaseMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failOnSave != 0 && s.saves >= s.failOnSave {
		return errors.New("connection reset")
	}
	value, err := cases.Value()
	if err != nil {
		return err
	}
	s.data[email] = value.([]byte)
	return nil
}

func newChatRouter(gen service.TextGenerator, store service.CaseStore) (*gin.Engine, *service.CaseService) {
	gin.SetMode(gin.TestMode)
	caseSvc := service.NewCaseService(service.CaseWithStore(store))
	chatSvc := service.NewChatService(service.ChatWithGenerator(gen))
	handler := NewChatHandler(chatSvc, caseSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(userEmailKey, testUserEmail) })
	r.POST("/api/chat", handler.Chat)
	return r, caseSvc
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestChatSuccessEnvelope(t *testing.T) {
	gen := &stubGenerator{result: &service.GenerationResult{Text: "Generally no.", TokensUsed: 100}}
	r, _ := newChatRouter(gen, newStubCaseStore())

	w := postChat(r, `{"prompt":"Can my landlord keep my deposit?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Generally no.", body["text"])
	assert.EqualValues(t, 100, body["tokensUsed"])
	// Quick mode, 32-char prompt: full multiplier applies.
	assert.EqualValues(t, 50, body["savedTokens"])
}

func TestChatMissingPrompt(t *testing.T) {
	r, _ := newChatRouter(&stubGenerator{}, newStubCaseStore())

	w := postChat(r, `{"mode":"deep"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestChatOverloadedEnvelope(t *testing.T) {
	gen := &stubGenerator{err: service.ErrModelOverloaded}
	r, _ := newChatRouter(gen, newStubCaseStore())

	w := postChat(r, `{"prompt":"hello there"}`)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "MODEL_OVERLOADED", errObj["code"])
	assert.Equal(t, "The AI model is currently overloaded. Please wait 10 seconds and try submitting again.", errObj["message"])
	// No pity award on the overloaded path.
	assert.NotContains(t, body, "savedTokens")
}

func TestChatGenericFailurePity(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream closed connection")}
	r, _ := newChatRouter(gen, newStubCaseStore())

	w := postChat(r, `{"prompt":"hello there"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "AI_ERROR", errObj["code"])
	assert.EqualValues(t, 0, body["tokensUsed"])
	assert.EqualValues(t, 10, body["savedTokens"])
}

func TestChatCaseUnknown(t *testing.T) {
	r, _ := newChatRouter(&stubGenerator{}, newStubCaseStore())

	w := postChat(r, `{"prompt":"hello there","case_id":"missing"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errObj := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "CASE_NOT_FOUND", errObj["code"])
}

func TestChatPersistFailureKeepsEstimate(t *testing.T) {
	gen := &stubGenerator{result: &service.GenerationResult{Text: "answer", TokensUsed: 100}}
	store := newStubCaseStore()
	r, caseSvc := newChatRouter(gen, store)

	created, err := caseSvc.CreateCase(context.Background(), testUserEmail)
	require.NoError(t, err)

	// Save 1 created the case, save 2 appends the user turn; the model
	// turn's save fails.
	store.failOnSave = 3

	w := postChat(r, `{"prompt":"hello there","case_id":"`+created.ID+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 50, body["savedTokens"])
}

func TestChatRejectsConcurrentTurnOnSameCase(t *testing.T) {
	gen := &stubGenerator{
		result:  &service.GenerationResult{Text: "answer", TokensUsed: 100},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	store := newStubCaseStore()
	r, caseSvc := newChatRouter(gen, store)

	created, err := caseSvc.CreateCase(context.Background(), testUserEmail)
	require.NoError(t, err)
	payload := `{"prompt":"hello there","case_id":"` + created.ID + `"}`

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- postChat(r, payload) }()

	select {
	case <-gen.entered:
	case <-time.After(time.Second):
		t.Fatal("first request never reached the generator")
	}

	second := postChat(r, payload)
	require.Equal(t, http.StatusConflict, second.Code)
	errObj := decodeBody(t, second)["error"].(map[string]any)
	assert.Equal(t, "RESPONSE_IN_PROGRESS", errObj["code"])

	close(gen.release)
	assert.Equal(t, http.StatusOK, (<-first).Code)
}
