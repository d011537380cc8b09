package handler

import (
	"Parley/internal/apperr"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func recordError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, err)
	return w
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", apperr.Unauthenticated("unauthenticated"), http.StatusUnauthorized},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound},
		{"access denied", apperr.AccessDenied("nope"), http.StatusForbidden},
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"unknown", errors.New("driver blew up"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := recordError(tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := recordError(errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "mongo")
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestParseObjectID(t *testing.T) {
	_, err := parseObjectID("not-a-hex-id", "conversationId")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	id, err := parseObjectID("656f1e4c8b3f4a2d9c1e7b5a", "conversationId")
	assert.NoError(t, err)
	assert.Equal(t, "656f1e4c8b3f4a2d9c1e7b5a", id.Hex())
}
