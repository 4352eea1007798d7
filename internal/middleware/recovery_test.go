package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitpulse/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	cases := map[string]struct {
		handler        http.HandlerFunc
		expectedStatus int
		expectedPanics float64
		expectJSON     bool
	}{
		"no panic": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			expectedStatus: http.StatusNoContent,
		},
		"panic before writing": {
			handler: func(http.ResponseWriter, *http.Request) {
				panic("nil meal")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedPanics: 1,
			expectJSON:     true,
		},
		"panic after headers were sent": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("half way")
			},
			expectedStatus: http.StatusAccepted,
			expectedPanics: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			metricsManager := metrics.NewTestManager()
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/meals", nil)

			PanicRecovery(metricsManager)(tc.handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedPanics, testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
			if tc.expectJSON {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, "internal server error", body["error"])
			}
		})
	}
}

func TestPanicRecovery_AbortHandlerIsRethrown(t *testing.T) {
	handler := PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
