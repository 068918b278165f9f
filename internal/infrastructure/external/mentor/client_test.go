package mentor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig(server.URL, "test-key")
	return NewClient(cfg)
}

func TestClient_Ask_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "generateContent")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "What is the Krebs cycle?", req.Contents[0].Parts[0].Text)

		resp := generateResponse{
			Candidates: []candidateDTO{
				{Content: contentDTO{Parts: []partDTO{{Text: "Certainly, Sir. The Krebs cycle..."}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	answer, err := client.Ask(context.Background(), "What is the Krebs cycle?")
	require.NoError(t, err)
	assert.Equal(t, "Certainly, Sir. The Krebs cycle...", answer)
}

func TestClient_Ask_EmptyQuestion(t *testing.T) {
	client := NewClient(DefaultClientConfig("http://localhost", "test-key"))

	_, err := client.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestClient_Ask_FallbackOnServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	answer, err := client.Ask(context.Background(), "Anything there?")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
}

func TestClient_Ask_FallbackWhenDisabled(t *testing.T) {
	cfg := DefaultClientConfig("http://localhost", "")
	client := NewClient(cfg)

	assert.False(t, client.Available())

	answer, err := client.Ask(context.Background(), "Anything there?")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
}

func TestClient_DailyBriefing_Fallback(t *testing.T) {
	cfg := DefaultClientConfig("http://localhost", "")
	cfg.Disabled = true
	client := NewClient(cfg)

	in := BriefingInput{
		Level:  12,
		Streak: 4,
		Subjects: []SubjectStatus{
			{Name: "Anatomy", Retention: 80, Coverage: 50, DaysIdle: 4},
			{Name: "Pharmacology", Retention: 35, Coverage: 20, DaysIdle: 13},
		},
	}

	briefing, err := client.DailyBriefing(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, briefing, "Pharmacology")
	assert.Contains(t, briefing, "35%")
}

func TestClient_DailyBriefing_FallbackNoSubjects(t *testing.T) {
	cfg := DefaultClientConfig("http://localhost", "")
	client := NewClient(cfg)

	briefing, err := client.DailyBriefing(context.Background(), BriefingInput{Level: 1, Streak: 0})
	require.NoError(t, err)
	assert.Contains(t, briefing, "No subjects on file")
}

func TestClient_RevisionQuiz_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Cardiology")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "3 short questions")

		resp := generateResponse{
			Candidates: []candidateDTO{
				{Content: contentDTO{Parts: []partDTO{{Text: "1. Name the heart valves."}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	quiz, err := client.RevisionQuiz(context.Background(), "Cardiology", 3)
	require.NoError(t, err)
	assert.Contains(t, quiz, "heart valves")
}

func TestClient_RevisionQuiz_RequiresSubject(t *testing.T) {
	client := NewClient(DefaultClientConfig("http://localhost", "key"))

	_, err := client.RevisionQuiz(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestClient_GenerateResponse_Parsing(t *testing.T) {
	jsonData := `{
    "candidates": [
        {
            "content": {
                "role": "model",
                "parts": [{"text": "Good morning, Sir."}]
            },
            "finishReason": "STOP"
        }
    ]
}`

	var resp generateResponse
	err := json.Unmarshal([]byte(jsonData), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Good morning, Sir.", resp.Candidates[0].Content.Parts[0].Text)
	assert.Equal(t, "STOP", resp.Candidates[0].FinishReason)
}
