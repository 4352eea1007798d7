package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponses(t *testing.T) {
	cases := map[string]struct {
		write          func(w http.ResponseWriter)
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		"bytes with status": {
			write: func(w http.ResponseWriter) {
				WriteResponseBytes(w, ContentType.JSON, []byte(`{"xp":10}`), http.StatusCreated)
			},
			expectedStatus: http.StatusCreated,
			expectedType:   ContentType.JSON,
			expectedBody:   `{"xp":10}`,
		},
		"bytes ok": {
			write: func(w http.ResponseWriter) {
				WriteResponseBytesOK(w, ContentType.JPEG, []byte{0xff, 0xd8})
			},
			expectedStatus: http.StatusOK,
			expectedType:   ContentType.JPEG,
			expectedBody:   string([]byte{0xff, 0xd8}),
		},
		"text ok": {
			write: func(w http.ResponseWriter) {
				WriteTextResponseOK(w, "pong")
			},
			expectedStatus: http.StatusOK,
			expectedType:   ContentType.Text,
			expectedBody:   "pong",
		},
		"json string ok": {
			write: func(w http.ResponseWriter) {
				WriteJSONResponseOK(w, `{"level":2}`)
			},
			expectedStatus: http.StatusOK,
			expectedType:   ContentType.JSON,
			expectedBody:   `{"level":2}`,
		},
		"no content type": {
			write: func(w http.ResponseWriter) {
				WriteResponse(w, "", "gone", http.StatusGone)
			},
			expectedStatus: http.StatusGone,
			expectedBody:   "gone",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedType != "" {
				assert.Equal(t, tc.expectedType, rec.Header().Get("Content-Type"))
			}
			assert.Equal(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, struct {
		Calories int      `json:"calories"`
		Foods    []string `json:"foods"`
	}{Calories: 540, Foods: []string{"chicken", "rice"}}, http.StatusOK)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"calories":540,"foods":["chicken","rice"]}`, rec.Body.String())
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSONError(rec, "monthly limit reached", false, http.StatusTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"monthly limit reached","retryable":false}`, rec.Body.String())
}

func TestWriteJSON_MarshalFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, map[string]any{"ch": make(chan int)}, http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
