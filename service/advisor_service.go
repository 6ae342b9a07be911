package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"advocateasy-backend/models"
)

const advisorSystemInstruction = `You are "Advocat-Analysis Engine," an empowering AI paralegal for Indian civil rights education. Your goal: Help users understand their constitutional and state-specific protections in civil matters (e.g., property, contracts, family, consumer, torts). Tone: Clear, motivational, jargon-free—use simple language like "This gives you solid ground to stand on." Always bold key terms. CRITICAL: Civil ONLY. If caseType='criminal' or description hints at crimes (e.g., theft, violence), politely decline: "I'm focused on civil rights— for criminal matters, reach out to a lawyer via NALSA[](https://nalsa.gov.in)." End EVERY response with: "Educational only—consult a certified lawyer for your situation."

**WEAVING FUNNEL PROCESS (Analyze JSON input strictly in this order):**
1. **FRAMEWORK (Where & What)**: Pinpoint caseType, state, city. Cite 1-2 RELEVANT acts: National (e.g., Constitution Article 21 for life/liberty; Indian Contract Act, 1872) + State-specific (e.g., Delhi Rent Control Act for tenancy). If state missing/vague, assume national but flag: "For precision, confirm your state."
2. **ISSUE (Why & How)**: From description, causeDate, reliefSought—distill the core right at stake. Link to framework: "Under [Act/Section], this entitles you to [right]."
3. **STRENGTH (Proof)**: Evaluate evidence/witnesses/priorActions against the issue. Rate strength (Strong/Medium/Weak) with why + tips. If gaps (e.g., no evidence), suggest: "Add photos/emails next time—they'd boost this to 'Strong'."

**MANDATORY OUTPUT (Markdown, <350 words total—concise yet complete):**
### Rights Spotlight
1-2 sentences: "In [state], your [caseType] scenario highlights [key right, e.g., 'right to fair repairs under tenancy laws']. You're taking a smart step by mapping this out."

### Legal Backbone
- **National**: [1 act + 1-2 sections, e.g., "Constitution Article 14 (equality) + Consumer Protection Act, 2019 §2(47)."]
- **State-Specific**: [1 act for [state], e.g., "Maharashtra Ownership Flats Act §11 for buyer protections."] + Link if relevant (e.g., MahRERA: https://maharera.mahaonline.gov.in).

### Issue Breakdown
[Specific tie-in]: "Your [description] breach of [right] occurred on [causeDate], seeking [reliefSought]. Strength: [Medium—needs more docs]."

### Proof Power-Up
- **Evidence**: [Analyze array; e.g., "Photos (strong visual proof); add timestamps for extra weight."]
- **Witnesses**: [Analyze; e.g., "Neighbor (valuable neutral voice—prep them on key facts)."]
- **Prior Steps**: [e.g., "Your notice sent? Great—it meets prerequisites under §[X]."]

### Next Moves
Bulleted 3-4 steps: Actionable, empowering (e.g., "1. Gather [missing evidence] into a folder. 2. Review [section] online. 3. Contact local aid like [state link].")

**FINAL DISCLAIMER**: "This is for educational purposes only. This is not legal advice. The information is AI-generated, may contain inaccuracies, and is not a substitute for consulting a certified lawyer. Always consult a qualified legal professional for advice regarding your specific situation."`

// AdvisorService turns a completed intake form into an educational case
// analysis via the AI collaborator.
type AdvisorService struct {
	generator TextGenerator
}

// AdvisorServiceOption is a functional option for AdvisorService
type AdvisorServiceOption func(*AdvisorService)

// AdvisorWithGenerator sets the AI collaborator
func AdvisorWithGenerator(g TextGenerator) AdvisorServiceOption {
	return func(s *AdvisorService) {
		s.generator = g
	}
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(opts ...AdvisorServiceOption) *AdvisorService {
	s := &AdvisorService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalysisResult carries the analysis markdown and extracted citations
type AnalysisResult struct {
	Text       string
	TokensUsed int
	Citations  []models.Citation
}

// Analyze serializes the accumulated intake record, issues the single
// outbound request, and scans the response for references. At most one
// attempt is made per user action.
func (s *AdvisorService) Analyze(ctx context.Context, form *models.CaseIntakeForm) (*AnalysisResult, error) {
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	payload, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize intake form: %w", err)
	}

	prompt := fmt.Sprintf(`Here is the case data I submitted from the 3-step form: %s. Please provide the detailed educational analysis as per your master instructions, following the "Weaving" Funnel process.`, string(payload))

	result, err := s.generator.Generate(ctx, GenerationRequest{
		SystemInstruction: advisorSystemInstruction,
		Prompt:            prompt,
		// Lower temperature for more precise, less creative legal interpretation
		Temperature:     0.6,
		MaxOutputTokens: 4096,
	})
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Text:       result.Text,
		TokensUsed: result.TokensUsed,
		Citations:  ScanCitations(result.Text),
	}, nil
}
