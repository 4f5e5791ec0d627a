package hub

import (
	"encoding/json"
	"io"
	"testing"

	"kinship/backend/internal/relationship"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ relationship.Notifier = (*Hub)(nil)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPublishReachesOnlyTheUser(t *testing.T) {
	h := New(quietLogger())
	alice, bob := uuid.New(), uuid.New()

	a1 := h.Subscribe(alice)
	a2 := h.Subscribe(alice)
	b := h.Subscribe(bob)
	assert.Equal(t, 2, h.Subscribers(alice))

	h.Notify(alice, relationship.EventRequestReceived, map[string]string{"from": bob.String()})

	for _, c := range []Client{a1, a2} {
		require.Len(t, c, 1)
		var ev Event
		require.NoError(t, json.Unmarshal(<-c, &ev))
		assert.Equal(t, relationship.EventRequestReceived, ev.Type)
	}
	assert.Empty(t, b)
}

func TestUnsubscribeClosesClient(t *testing.T) {
	h := New(quietLogger())
	user := uuid.New()
	c := h.Subscribe(user)

	h.Unsubscribe(user, c)
	_, open := <-c
	assert.False(t, open)
	assert.Zero(t, h.Subscribers(user))

	// second unsubscribe must not close twice
	h.Unsubscribe(user, c)
	h.Notify(user, relationship.EventRelationshipRemoved, nil)
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	h := New(quietLogger())
	user := uuid.New()
	c := h.Subscribe(user)

	for i := 0; i < clientBuffer+5; i++ {
		h.Notify(user, relationship.EventRequestAccepted, i)
	}
	assert.Len(t, c, clientBuffer)
}
