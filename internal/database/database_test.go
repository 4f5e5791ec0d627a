package database

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestShouldRetry(t *testing.T) {
	ctx := context.Background()

	assert.True(t, shouldRetry(ctx, errors.New("connection refused")))
	assert.True(t, shouldRetry(ctx, mongo.CommandError{Code: 11600}))
	assert.False(t, shouldRetry(ctx, mongo.CommandError{Code: 18}))
	assert.False(t, shouldRetry(ctx, errors.Wrap(mongo.CommandError{Code: 13}, "ping")))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, shouldRetry(cancelled, errors.New("connection refused")))
}
