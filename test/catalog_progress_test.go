//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/fitpulse/internal/catalog"
	"github.com/2beens/fitpulse/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getProgram(ctx context.Context, slug string) *catalog.Program {
	resp := s.doJSON(ctx, http.MethodGet, "/programs/"+slug, "", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var program catalog.Program
	s.decode(resp, &program)
	return &program
}

func (s *IntegrationTestSuite) TestCatalog() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp := s.doJSON(ctx, http.MethodGet, "/programs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
	var list catalog.ProgramsListResponse
	s.decode(resp, &list)
	require.Len(t, list.Programs, 3)
	for _, p := range list.Programs {
		assert.Empty(t, p.Videos)
		assert.Positive(t, p.VideosCount)
	}

	resp = s.doJSON(ctx, http.MethodGet, "/programs?category=cardio", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &list)
	require.Len(t, list.Programs, 1)
	assert.Equal(t, "hiit-20", list.Programs[0].Slug)
	assert.Equal(t, 2400, list.Programs[0].DurationSeconds)

	program := s.getProgram(ctx, "full-body-starter")
	assert.Equal(t, catalog.LevelBeginner, program.Level)
	require.Len(t, program.Videos, 3)
	for i, v := range program.Videos {
		assert.Equal(t, i+1, v.Position)
	}

	resp = s.doJSON(ctx, http.MethodGet, "/programs/no-such-program", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestProgress_WatchVideos() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.newUser(ctx)
	videos := s.getProgram(ctx, "full-body-starter").Videos
	require.Len(t, videos, 3)

	update := func(videoID, pos int) progress.VideoProgress {
		resp := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("/progress/videos/%d", videoID), user.Token,
			progress.UpdateVideoRequest{PositionSeconds: pos})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var vp progress.VideoProgress
		s.decode(resp, &vp)
		return vp
	}
	current := func() progress.ProgressResponse {
		resp := s.doJSON(ctx, http.MethodGet, "/progress", user.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var p progress.ProgressResponse
		s.decode(resp, &p)
		return p
	}

	vp := update(videos[0].ID, 120)
	assert.False(t, vp.Completed)
	assert.Equal(t, videos[0].DurationSeconds, vp.DurationSeconds)
	assert.Equal(t, 0, current().XP)

	update(videos[1].ID, 60)

	// past the end is clamped and completes the video
	vp = update(videos[0].ID, videos[0].DurationSeconds+500)
	assert.True(t, vp.Completed)
	assert.Equal(t, videos[0].DurationSeconds, vp.PositionSeconds)
	assert.Equal(t, 50, current().XP)

	// completing again does not award twice
	update(videos[0].ID, videos[0].DurationSeconds)
	p := current()
	assert.Equal(t, 50, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.True(t, p.Videos[videos[0].ID].Completed)

	resp := s.doJSON(ctx, http.MethodGet, "/progress/continue", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cont progress.ContinueResponse
	s.decode(resp, &cont)
	require.Len(t, cont.Videos, 1)
	assert.Equal(t, videos[1].ID, cont.Videos[0].VideoID)
	assert.Equal(t, 60, cont.Videos[0].PositionSeconds)

	resp = s.doJSON(ctx, http.MethodPut, "/progress/videos/999999", user.Token, progress.UpdateVideoRequest{PositionSeconds: 10})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodPut, fmt.Sprintf("/progress/videos/%d", videos[2].ID), user.Token, progress.UpdateVideoRequest{PositionSeconds: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
