package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindAccessDenied, KindOf(AccessDenied("nope")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindUnauthenticated, KindOf(Unauthenticated("who are you")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("missing"))
	assert.True(t, IsKind(err, KindNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("driver timeout")
	err := Wrap(KindNotFound, "conversation lookup failed", cause)

	assert.True(t, IsKind(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "driver timeout")
}
