package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/mocks"
	"github.com/monitize/monitize-api/internal/service/assistant"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAssistantHandler_Ask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		model      *mocks.MockModel
		wantStatus int
		wantOK     bool
		wantText   string
		wantNotice string
		wantReason string
		wantCalls  int
	}{
		{
			name:       "answer",
			body:       `{"question":"What is compound interest?"}`,
			model:      mocks.NewMockModelWithText("**Context**: interest on interest"),
			wantStatus: http.StatusOK,
			wantOK:     true,
			wantText:   "Context: interest on interest",
			wantCalls:  1,
		},
		{
			name:       "blank question",
			body:       `{"question":"   "}`,
			model:      mocks.NewMockModelWithText("unused"),
			wantStatus: http.StatusOK,
			wantNotice: assistant.NoticeEmptyQuestion,
			wantReason: ReasonEmptyInput,
		},
		{
			name:       "model failure",
			body:       `{"question":"What is APR?"}`,
			model:      mocks.MockModelThatFails(),
			wantStatus: http.StatusOK,
			wantNotice: assistant.NoticeAssistantUnavailable,
			wantReason: ReasonModelUnavailable,
			wantCalls:  1,
		},
		{
			name:       "blocked content",
			body:       `{"question":"What is APR?"}`,
			model:      mocks.MockModelWithContentBlocked(),
			wantStatus: http.StatusOK,
			wantNotice: assistant.NoticeAssistantUnavailable,
			wantReason: ReasonContentBlocked,
			wantCalls:  1,
		},
		{
			name:       "malformed json",
			body:       `{"question":`,
			model:      mocks.NewMockModelWithText("unused"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"q":"hi"}`,
			model:      mocks.NewMockModelWithText("unused"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.model, nil)

			rec := srv.do(jsonRequest(http.MethodPost, "/api/assistant/ask", tc.body))

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantCalls, tc.model.CallCount())
			if tc.wantStatus != http.StatusOK {
				return
			}
			resp := decodeBody[TextResponse](t, rec)
			assert.Equal(t, tc.wantOK, resp.OK)
			assert.Equal(t, tc.wantText, resp.Text)
			assert.Equal(t, tc.wantNotice, resp.Notice)
			assert.Equal(t, tc.wantReason, resp.Reason)
		})
	}
}

func TestAssistantHandler_AskRecordsActivity(t *testing.T) {
	jwt := auth.NewMockJWTServiceFor("learner-42")
	srv := newTestServer(t, mocks.NewMockModelWithText("An answer."), jwt)

	req := jsonRequest(http.MethodPost, "/api/assistant/ask", `{"question":"What is a budget?"}`)
	req.Header.Set("Authorization", "Bearer token")
	rec := srv.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	learnerEntries, err := srv.log.Entries(context.Background(), activity.KeyFor(activity.DefaultKey, "learner-42"))
	require.NoError(t, err)
	require.Len(t, learnerEntries, 1)
	assert.Equal(t, domain.ActionGenerated, learnerEntries[0].ActionType)
	assert.Equal(t, domain.SourceAIGenerated, learnerEntries[0].ContentSource)
	assert.Equal(t, assistant.ToolIDLearningAssistant, learnerEntries[0].ToolID)

	anonymous, err := srv.log.Entries(context.Background(), activity.DefaultKey)
	require.NoError(t, err)
	assert.Empty(t, anonymous, "learner activity must not leak into the anonymous log")
}

func TestAssistantHandler_Tool(t *testing.T) {
	model := mocks.NewMockModelWithText("Think of a budget like a map.")
	srv := newTestServer(t, model, nil)

	rec := srv.do(jsonRequest(http.MethodPost, "/api/tools/analogy",
		`{"input":"budgeting","context":{"category":"travel"}}`))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TextResponse](t, rec)
	assert.True(t, resp.OK)
	assert.Equal(t, "Think of a budget like a map.", resp.Text)

	call, ok := model.LastCall()
	require.True(t, ok)
	assert.Equal(t, "budgeting", call.Request.Prompt)
	assert.Contains(t, call.Request.SystemInstruction, "travel")
}

func TestAssistantHandler_ToolUnknownKind(t *testing.T) {
	model := mocks.NewMockModelWithText("unused")
	srv := newTestServer(t, model, nil)

	rec := srv.do(jsonRequest(http.MethodPost, "/api/tools/horoscope", `{"input":"anything"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TextResponse](t, rec)
	assert.False(t, resp.OK)
	assert.Equal(t, assistant.NoticeUnknownTool, resp.Notice)
	assert.Equal(t, ReasonUnknownTool, resp.Reason)
	assert.Zero(t, model.CallCount())
}

func TestAssistantHandler_ToolKinds(t *testing.T) {
	srv := newTestServer(t, mocks.NewMockModelWithText(""), nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/api/tools", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string][]string](t, rec)
	assert.Len(t, resp["tools"], len(domain.ToolKinds()))
	assert.Contains(t, resp["tools"], "bias_scan")
}

func TestAssistantHandler_StudyNotes(t *testing.T) {
	model := mocks.NewMockModelWithText("# Notes\n* Inflation erodes savings")
	srv := newTestServer(t, model, nil)

	rec := srv.do(jsonRequest(http.MethodPost, "/api/study-notes",
		`{"content":"Inflation is a general rise in prices.","mode":"exam review"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TextResponse](t, rec)
	assert.True(t, resp.OK)
	assert.NotContains(t, resp.Text, "#")
	assert.NotContains(t, resp.Text, "*")

	call, ok := model.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.Request.Prompt, "exam review")
}

func TestAssistantHandler_Flashcards(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		model := mocks.NewMockModelWithJSON(`{"flashcards":[
			{"id":"c1","front":"What is a bond?","back":"A loan to an issuer.","difficulty":"basic","category":"definition"}
		]}`)
		srv := newTestServer(t, model, nil)

		rec := srv.do(jsonRequest(http.MethodPost, "/api/flashcards", `{"content":"Bonds are loans."}`))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[FlashcardsResponse](t, rec)
		assert.True(t, resp.OK)
		require.Len(t, resp.Flashcards, 1)
		assert.Equal(t, domain.DifficultyBasic, resp.Flashcards[0].Difficulty)
	})

	t.Run("failure still returns an empty array", func(t *testing.T) {
		srv := newTestServer(t, mocks.NewMockModelWithJSON(`not json`), nil)

		rec := srv.do(jsonRequest(http.MethodPost, "/api/flashcards", `{"content":"Bonds are loans."}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"ok": false,
			"flashcards": [],
			"notice": "`+assistant.NoticeFlashcardsFailed+`",
			"reason": "invalid_response"
		}`, rec.Body.String())
	})
}

func TestAssistantHandler_SupersededRequest(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	model := &mocks.MockModel{
		GenerateTextFn: func(ctx context.Context, req generation.Request) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-ctx.Done()
				return "", ctx.Err()
			}
			return "Fresh answer.", nil
		},
	}
	srv := newTestServer(t, model, nil)

	newReq := func() *http.Request {
		req := jsonRequest(http.MethodPost, "/api/assistant/ask", `{"question":"What is equity?"}`)
		req.Header.Set(SessionHeader, "tab-1")
		return req
	}

	var (
		wg    sync.WaitGroup
		stale *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale = srv.do(newReq())
	}()
	<-started

	fresh := srv.do(newReq())
	wg.Wait()

	require.Equal(t, http.StatusOK, fresh.Code)
	assert.Equal(t, "Fresh answer.", decodeBody[TextResponse](t, fresh).Text)
	assert.Equal(t, http.StatusConflict, stale.Code)
	assert.Zero(t, srv.tracker.Active())
}

func TestAssistantHandler_SupersededResultIsNotLogged(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	model := &mocks.MockModel{
		GenerateTextFn: func(ctx context.Context, req generation.Request) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
				return "Late answer.", nil
			}
			return "Fresh answer.", nil
		},
	}
	srv := newTestServer(t, model, nil)

	newReq := func() *http.Request {
		req := jsonRequest(http.MethodPost, "/api/assistant/ask", `{"question":"What is a bond?"}`)
		req.Header.Set(SessionHeader, "tab-2")
		return req
	}

	var (
		wg    sync.WaitGroup
		stale *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale = srv.do(newReq())
	}()
	<-started

	fresh := srv.do(newReq())
	close(release)
	wg.Wait()

	require.Equal(t, http.StatusOK, fresh.Code)
	assert.Equal(t, http.StatusConflict, stale.Code)

	entries, err := srv.log.Entries(context.Background(), activity.DefaultKey)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the kept answer is recorded")
	assert.Equal(t, domain.ActionGenerated, entries[0].ActionType)
}

func TestAssistantHandler_UntrackedAnonymousRequests(t *testing.T) {
	srv := newTestServer(t, mocks.NewMockModelWithText("ok"), nil)

	req := jsonRequest(http.MethodPost, "/api/assistant/ask", `{"question":"What is equity?"}`)
	req.Header.Set(SessionHeader, "not a valid session!")
	rec := srv.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, srv.tracker.Active())
}

func TestAssistantHandler_InvalidToken(t *testing.T) {
	model := mocks.NewMockModelWithText("unused")
	srv := newTestServer(t, model, nil)

	req := jsonRequest(http.MethodPost, "/api/assistant/ask", `{"question":"hi"}`)
	req.Header.Set("Authorization", "Bearer forged")
	rec := srv.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, model.CallCount())
}
