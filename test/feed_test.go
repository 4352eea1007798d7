//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/fitpulse/internal/feed"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestFeed() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	author := s.newUser(ctx)
	reader := s.newUser(ctx)

	content := gofakeit.Sentence(12)
	resp := s.doJSON(ctx, http.MethodPost, "/feed", author.Token, map[string]any{"content": content})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post feed.Post
	s.decode(resp, &post)
	assert.Equal(t, author.ID, post.UserID)
	assert.Equal(t, content, post.Content)

	resp = s.doJSON(ctx, http.MethodPut, fmt.Sprintf("/feed/%d/reaction", post.ID), reader.Token, map[string]any{"reaction": "fire"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodPut, fmt.Sprintf("/feed/%d/reaction", post.ID), reader.Token, map[string]any{"reaction": "meh"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/feed/%d/comments", post.ID), reader.Token, map[string]any{"content": "nice one"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodGet, "/feed/page/1/size/50", reader.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page feed.PostsPageResponse
	s.decode(resp, &page)
	var found *feed.Post
	for i := range page.Posts {
		if page.Posts[i].ID == post.ID {
			found = &page.Posts[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, author.DisplayName, found.AuthorName)
	assert.Equal(t, 1, found.Reactions[feed.ReactionFire])
	assert.Equal(t, feed.ReactionFire, found.MyReaction)
	assert.Equal(t, 1, found.CommentsCount)

	resp = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/feed/%d/comments", post.ID), author.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments feed.CommentsResponse
	s.decode(resp, &comments)
	require.Len(t, comments.Comments, 1)
	assert.Equal(t, reader.DisplayName, comments.Comments[0].AuthorName)

	// only the author can delete
	resp = s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/feed/%d", post.ID), reader.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/feed/%d", post.ID), author.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var commentsLeft int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment WHERE post_id = $1`, post.ID).Scan(&commentsLeft))
	assert.Zero(t, commentsLeft)

	resp = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/feed/%d/comments", post.ID), author.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
