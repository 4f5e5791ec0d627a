package favorite_test

import (
	"context"
	"sync"
	"testing"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"
	"kinship/backend/internal/store/memory"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListRemove(t *testing.T) {
	ctx := context.Background()
	svc := favorite.NewService(memory.New().Marks(), models.CollectionFavorites, nil)
	user := uuid.New()

	_, err := svc.Add(ctx, user, models.ItemPost, "p1")
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, models.ItemReply, "r1")
	require.NoError(t, err)

	all, err := svc.List(ctx, user, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	posts, err := svc.List(ctx, user, models.ItemPost)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ItemID)

	require.NoError(t, svc.Remove(ctx, user, models.ItemPost, "p1"))

	err = svc.Remove(ctx, user, models.ItemPost, "p1")
	var notFound *favorite.MarkNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAddTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := favorite.NewService(memory.New().Marks(), models.CollectionLikes, nil)
	user := uuid.New()

	_, err := svc.Add(ctx, user, models.ItemPost, "p1")
	require.NoError(t, err)

	_, err = svc.Add(ctx, user, models.ItemPost, "p1")
	var already *favorite.AlreadyMarkedError
	require.ErrorAs(t, err, &already)
	assert.True(t, errors.Is(err, apperr.ErrNotAllowed))
}

func TestAddRequiresItemID(t *testing.T) {
	svc := favorite.NewService(memory.New().Marks(), models.CollectionLikes, nil)

	_, err := svc.Add(context.Background(), uuid.New(), models.ItemPost, "")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestCollectionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	favorites := favorite.NewService(backend.Marks(), models.CollectionFavorites, nil)
	likes := favorite.NewService(backend.Marks(), models.CollectionLikes, nil)
	user := uuid.New()

	_, err := favorites.Add(ctx, user, models.ItemPost, "p1")
	require.NoError(t, err)

	liked, err := likes.List(ctx, user, "")
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = likes.Add(ctx, user, models.ItemPost, "p1")
	assert.NoError(t, err)
}

func TestConcurrentAddsKeepOneMark(t *testing.T) {
	ctx := context.Background()
	svc := favorite.NewService(memory.New().Marks(), models.CollectionFavorites, nil)
	user := uuid.New()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(ctx, user, models.ItemPost, "p1"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	marks, err := svc.List(ctx, user, models.ItemPost)
	require.NoError(t, err)
	assert.Len(t, marks, 1)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	svc := favorite.NewService(memory.New().Marks(), models.CollectionLikes, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, uuid.New(), models.ItemReply, "r1")
		require.NoError(t, err)
	}

	n, err := svc.Count(ctx, models.ItemReply, "r1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = svc.Count(ctx, models.ItemPost, "r1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
