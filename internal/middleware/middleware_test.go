package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapIot.energyportal/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestEnsureValidToken_Disabled(t *testing.T) {
	t.Parallel()

	mw, err := EnsureValidToken(config.Auth0Config{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/connections", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWithValidator(t *testing.T) {
	t.Parallel()

	validate := func(ctx context.Context, token string) (interface{}, error) {
		if token == "good" {
			return map[string]string{"sub": "admin"}, nil
		}
		return nil, errors.New("bad token")
	}
	h := WithValidator(validate)(okHandler)

	tests := map[string]struct {
		header string
		want   int
	}{
		"missing": {"", http.StatusUnauthorized},
		"invalid": {"Bearer nope", http.StatusUnauthorized},
		"valid":   {"Bearer good", http.StatusTeapot},
	}
	for name, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/admin/connections", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, name)
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RequestLogger(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
