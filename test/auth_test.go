//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAuth() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.newUser(ctx)

	cases := map[string]struct {
		path           string
		body           map[string]string
		expectedStatus int
	}{
		"wrong password": {
			path:           "/a/login",
			body:           map[string]string{"username": user.Username, "password": "wrong-password"},
			expectedStatus: http.StatusUnauthorized,
		},
		"empty password": {
			path:           "/a/login",
			body:           map[string]string{"username": user.Username},
			expectedStatus: http.StatusBadRequest,
		},
		"username taken": {
			path:           "/a/register",
			body:           map[string]string{"username": user.Username, "password": "whatever123"},
			expectedStatus: http.StatusConflict,
		},
		"password too short": {
			path:           "/a/register",
			body:           map[string]string{"username": "shorty", "password": "abc"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			resp := s.doJSON(ctx, http.MethodPost, tc.path, "", tc.body)
			defer resp.Body.Close()
			assert.Equal(s.T(), tc.expectedStatus, resp.StatusCode)
		})
	}

	resp := s.doJSON(ctx, http.MethodGet, "/progress", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodGet, "/progress", user.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodGet, "/a/logout", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodGet, "/progress", user.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
