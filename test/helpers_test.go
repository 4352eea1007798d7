//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fitpulse/internal/auth"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	auth.User
	Password string
	Token    string
}

// newUser registers a fresh user and logs them in.
func (s *IntegrationTestSuite) newUser(ctx context.Context) *testUser {
	t := s.T()

	u := &testUser{Password: gofakeit.Password(true, true, true, false, false, 14)}
	username := "u_" + strings.ToLower(gofakeit.LetterN(12))

	resp := s.doJSON(ctx, http.MethodPost, "/a/register", "", map[string]string{
		"username":    username,
		"password":    u.Password,
		"displayName": gofakeit.FirstName(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &u.User)

	resp = s.doJSON(ctx, http.MethodPost, "/a/login", "", map[string]string{
		"username": username,
		"password": u.Password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		Token string `json:"token"`
	}
	s.decode(resp, &loginResp)
	require.NotEmpty(t, loginResp.Token)
	u.Token = loginResp.Token

	return u
}

func (s *IntegrationTestSuite) doJSON(ctx context.Context, method, path, token string, body any) *http.Response {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NoError(s.T(), json.Unmarshal(respBytes, v), string(respBytes))
}
