package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMessageErrorsReportFamily(t *testing.T) {
	err := Invalid("kind is required")
	assert.EqualError(t, err, "kind is required")
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.False(t, errors.Is(err, ErrNotFound))

	err = errors.Wrap(Unauthorized("bad token"), "auth")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestFamilyHelpersSeeThroughWrapping(t *testing.T) {
	assert.True(t, IsNotFound(errors.Wrap(ErrNotFound, "load user")))
	assert.True(t, IsNotAllowed(errors.Wrapf(ErrNotAllowed, "pair %d", 1)))
	assert.True(t, IsConflict(errors.WithStack(ErrConflict)))
	assert.False(t, IsConflict(ErrNotFound))
}
