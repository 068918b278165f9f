package mentor

// DTOs for the generative language API. Only the fields the client
// actually reads or writes are modelled.

// generateRequest is the request body for a generateContent call.
type generateRequest struct {
	Contents         []contentDTO      `json:"contents"`
	SystematicPrompt *systemPromptDTO  `json:"systemInstruction,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type contentDTO struct {
	Role  string    `json:"role,omitempty"`
	Parts []partDTO `json:"parts"`
}

type partDTO struct {
	Text string `json:"text"`
}

type systemPromptDTO struct {
	Parts []partDTO `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// generateResponse is the response body for a generateContent call.
type generateResponse struct {
	Candidates []candidateDTO `json:"candidates"`
	Error      *apiErrorDTO   `json:"error,omitempty"`
}

type candidateDTO struct {
	Content      contentDTO `json:"content"`
	FinishReason string     `json:"finishReason,omitempty"`
}

type apiErrorDTO struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ══════════════════════════════════════════════════════════════════════════════
// INPUT TYPES
// ══════════════════════════════════════════════════════════════════════════════

// SubjectStatus is one subject line in a briefing request.
type SubjectStatus struct {
	Name      string
	Retention int // 0-100
	Coverage  int // 0-100
	DaysIdle  int
}

// BriefingInput summarizes the operator's state for the daily briefing.
type BriefingInput struct {
	Level    int
	Streak   int
	Subjects []SubjectStatus
}
