//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"

	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/progress"
	"github.com/2beens/fitpulse/internal/recognition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhoto(seed uint8) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for x := 0; x < 800; x += 4 {
		for y := 0; y < 600; y += 4 {
			img.Set(x, y, color.RGBA{R: uint8(x) + seed, G: uint8(y), B: seed, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (s *IntegrationTestSuite) analyze(ctx context.Context, token string, photo []byte, fields map[string]string) *http.Response {
	t := s.T()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("photo", "meal.jpg")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/nutrition/analyze", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) TestMeals_AnalyzeSaveAndList() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.newUser(ctx)

	resp := s.analyze(ctx, user.Token, testPhoto(1), map[string]string{"weight": "400", "save": "true"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analyzed meals.AnalyzeResponse
	s.decode(resp, &analyzed)

	require.NotNil(t, analyzed.Analysis)
	require.Len(t, analyzed.Analysis.Foods, 2)
	assert.Equal(t, "chicken", analyzed.Analysis.Foods[0].Name)
	assert.Equal(t, 93, analyzed.Analysis.Foods[0].Confidence)
	assert.Equal(t, "rice", analyzed.Analysis.Foods[1].Name)
	assert.Equal(t, 400.0, analyzed.Analysis.EstimatedWeight)
	assert.Equal(t, 87, analyzed.Analysis.Confidence)
	assert.Greater(t, analyzed.Analysis.Totals.Calories, 0.0)
	require.NotNil(t, analyzed.Meal)
	assert.True(t, analyzed.Meal.HasPhoto)

	var stored int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM meal WHERE user_id = $1`, user.ID).Scan(&stored))
	assert.Equal(t, 1, stored)

	// analysis without save is not stored
	resp = s.analyze(ctx, user.Token, testPhoto(2), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notSaved meals.AnalyzeResponse
	s.decode(resp, &notSaved)
	assert.Nil(t, notSaved.Meal)
	assert.Equal(t, 150.0, notSaved.Analysis.EstimatedWeight)

	resp = s.doJSON(ctx, http.MethodGet, "/nutrition/meals/page/1/size/10", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list meals.MealsListResponse
	s.decode(resp, &list)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Meals, 1)
	assert.Equal(t, analyzed.Meal.ID, list.Meals[0].ID)

	resp = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/nutrition/meals/%d/photo", analyzed.Meal.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodGet, "/nutrition/history", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history meals.HistoryResponse
	s.decode(resp, &history)
	require.Len(t, history.Days, 1)
	assert.Equal(t, 1, history.Days[0].MealsCount)
	assert.InDelta(t, analyzed.Analysis.Totals.Calories, history.Days[0].Totals.Calories, 0.01)

	// a saved meal is worth XP
	resp = s.doJSON(ctx, http.MethodGet, "/progress", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prog progress.ProgressResponse
	s.decode(resp, &prog)
	assert.Equal(t, 1, prog.MealsLogged)
	assert.Equal(t, 10, prog.XP)

	// other users do not see the meal
	other := s.newUser(ctx)
	resp = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/nutrition/meals/%d", analyzed.Meal.ID), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/nutrition/meals/%d", analyzed.Meal.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted meals.DeleteMealResponse
	s.decode(resp, &deleted)
	assert.Equal(t, analyzed.Meal.ID, deleted.DeletedID)

	resp = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/nutrition/meals/%d", analyzed.Meal.ID), user.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestMeals_CachedPhotoDoesNotUseQuota() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.newUser(ctx)

	usage := func() recognition.UsageReport {
		resp := s.doJSON(ctx, http.MethodGet, "/nutrition/usage", user.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var report recognition.UsageReport
		s.decode(resp, &report)
		return report
	}

	before := usage()
	photo := testPhoto(42)
	for i := 0; i < 3; i++ {
		resp := s.analyze(ctx, user.Token, photo, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	after := usage()

	assert.Equal(t, before.Count+1, after.Count)
	assert.Equal(t, 100, after.Limit)
	assert.Equal(t, after.Limit-after.Count, after.Remaining)
}

func (s *IntegrationTestSuite) TestMeals_BadRequests() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user := s.newUser(ctx)

	resp := s.analyze(ctx, user.Token, testPhoto(3), map[string]string{"weight": "-5"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.analyze(ctx, user.Token, []byte("definitely not an image"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.analyze(ctx, "", testPhoto(3), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestFoodLookup() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp := s.doJSON(ctx, http.MethodGet, "/nutrition/foods/lookup?name=Grilled%20Salmon", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lookup meals.LookupResponse
	s.decode(resp, &lookup)
	assert.Equal(t, "salmon", lookup.Reference.Key)
	assert.Equal(t, 208.0, lookup.Reference.CaloriesPer100)
}
