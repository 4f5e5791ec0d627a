package models

import (
	"testing"
	"time"

	"kinship/backend/internal/apperr"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	testCases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"friend", KindFriend, false},
		{"partner", KindPartner, false},
		{"follow", "", true},
		{"", "", true},
		{"Friend", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseKind(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperr.ErrInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderedPairIsSymmetric(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	lo1, hi1 := OrderedPair(a, b)
	lo2, hi2 := OrderedPair(b, a)

	assert.Equal(t, lo1, lo2)
	assert.Equal(t, hi1, hi2)
	assert.NotEqual(t, lo1, hi1)
}

func TestRelationshipOtherAndInvolves(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rel := NewRelationship(a, b, KindFriend, time.Now())

	assert.Equal(t, b, rel.Other(a))
	assert.Equal(t, a, rel.Other(b))
	assert.True(t, rel.Involves(a))
	assert.True(t, rel.Involves(b))
	assert.False(t, rel.Involves(c))
}

func TestNewRequestKeepsDirection(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	req := NewRequest(a, b, KindPartner, RequestPending, time.Now())

	assert.Equal(t, a, req.From)
	assert.Equal(t, b, req.To)
	low, high := OrderedPair(a, b)
	assert.Equal(t, low, req.PairLow)
	assert.Equal(t, high, req.PairHigh)
	assert.True(t, req.Between(b, a))
	assert.True(t, req.Involves(b))
	assert.False(t, req.Between(a, uuid.New()))
	assert.Equal(t, b, req.Other(a))
	assert.Equal(t, a, req.Other(b))
}

func TestParseItemType(t *testing.T) {
	got, err := ParseItemType("reply")
	require.NoError(t, err)
	assert.Equal(t, ItemReply, got)

	_, err = ParseItemType("map")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}
