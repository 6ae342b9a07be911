package service

import (
	"context"
	"testing"

	"advocateasy-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForm() *models.CaseIntakeForm {
	return &models.CaseIntakeForm{
		CaseTitle:     "Deposit Dispute",
		PlaintiffName: "Asha Rao",
		DefendantName: "Acme Rentals",
		CaseType:      "Consumer",
		State:         "Karnataka",
		City:          "Bengaluru",
		Description:   "Landlord kept my deposit after I moved out.",
	}
}

func TestAnalyzeSendsSerializedForm(t *testing.T) {
	gen := &fakeGenerator{result: &GenerationResult{Text: "analysis", TokensUsed: 1500}}
	svc := NewAdvisorService(AdvisorWithGenerator(gen))

	result, err := svc.Analyze(context.Background(), sampleForm())

	require.NoError(t, err)
	assert.Equal(t, 1500, result.TokensUsed)
	assert.Equal(t, advisorSystemInstruction, gen.lastReq.SystemInstruction)
	assert.Contains(t, gen.lastReq.Prompt, `"case_title":"Deposit Dispute"`)
	assert.Contains(t, gen.lastReq.Prompt, "Weaving")
	assert.Empty(t, gen.lastReq.History)
	assert.InDelta(t, 0.6, gen.lastReq.Temperature, 0.001)
	assert.EqualValues(t, 4096, gen.lastReq.MaxOutputTokens)
}

func TestAnalyzeExtractsCitations(t *testing.T) {
	gen := &fakeGenerator{result: &GenerationResult{
		Text:       "Your claim rests on Section 19 of the Consumer Protection Act, 2019. See https://nalsa.gov.in for aid.",
		TokensUsed: 2000,
	}}
	svc := NewAdvisorService(AdvisorWithGenerator(gen))

	result, err := svc.Analyze(context.Background(), sampleForm())

	require.NoError(t, err)
	require.Len(t, result.Citations, 3)
	assert.Equal(t, "https://nalsa.gov.in", result.Citations[0].Title)
	assert.Equal(t, "Section 19", result.Citations[1].Title)
	assert.Equal(t, "Consumer Protection Act, 2019", result.Citations[2].Title)
}

func TestAnalyzePropagatesOverload(t *testing.T) {
	gen := &fakeGenerator{err: ErrModelOverloaded}
	svc := NewAdvisorService(AdvisorWithGenerator(gen))

	_, err := svc.Analyze(context.Background(), sampleForm())

	assert.ErrorIs(t, err, ErrModelOverloaded)
	assert.Equal(t, 1, gen.callCount())
}
