package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/interview-trainer-api/internal/dto"
)

func issueToken(t *testing.T, server *testServer, email, password string) string {
	t.Helper()

	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func authorizedGet(t *testing.T, server *testServer, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func completeInterview(t *testing.T, server *testServer, b *browser, role string, feedback ...string) dto.ResultView {
	t.Helper()
	requireRedirect(t, b.post("/start_interview", url.Values{"role": {role}}), "/interview")
	server.feedback.script(feedback...)
	for range feedback {
		requireRedirect(t, b.post("/submit_answer", url.Values{"answer": {"answer"}}), "/interview")
	}
	resp := b.get("/complete_interview")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.ResultView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	return result
}

func TestHistoryAPI(t *testing.T) {
	server := newTestServer(t)

	owner := server.browser(t)
	owner.signupAndLogin("ada", "ada@example.com", "secret123")
	first := completeInterview(t, server, owner, "python_developer", "Score: 7 out of 10")
	second := completeInterview(t, server, owner, "data_scientist", "Score: 9 out of 10", "Score: 2 out of 10")

	other := server.browser(t)
	other.signupAndLogin("grace", "grace@example.com", "secret123")

	token := issueToken(t, server, "ada@example.com", "secret123")

	resp := authorizedGet(t, server, "/api/v1/interviews", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)

	var items []dto.InterviewSummary
	require.NoError(t, json.Unmarshal(envelope.Data, &items))
	require.Len(t, items, 2)
	ids := []uint{items[0].ID, items[1].ID}
	require.ElementsMatch(t, []uint{first.InterviewID, second.InterviewID}, ids)

	var meta dto.PaginationMeta
	require.NoError(t, json.Unmarshal(envelope.Meta, &meta))
	require.Equal(t, int64(2), meta.TotalItems)

	resp = authorizedGet(t, server, fmt.Sprintf("/api/v1/interviews/%d", second.InterviewID), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var detail dto.InterviewDetail
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &detail))
	require.Equal(t, 11, *detail.Score)
	require.Len(t, detail.Responses, 2)
	require.Equal(t, "Data Scientist", detail.RoleLabel)

	otherToken := issueToken(t, server, "grace@example.com", "secret123")
	resp = authorizedGet(t, server, fmt.Sprintf("/api/v1/interviews/%d", second.InterviewID), otherToken)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = authorizedGet(t, server, "/api/v1/interviews/abc", token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = authorizedGet(t, server, "/api/v1/interviews?page=x", token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = authorizedGet(t, server, "/api/v1/interviews", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	body, err := json.Marshal(dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
