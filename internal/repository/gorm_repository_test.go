package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"happythoughts/internal/model"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestGormUserRepository(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	user := &model.User{Username: "alice", PasswordHash: "hash", AccessToken: "token-a"}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.NotEmpty(t, user.ID, "BeforeCreate assigns an id")

	byName, err := store.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byToken, err := store.Users.FindByAccessToken(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, "alice", byToken.Username)

	_, err = store.Users.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Users.FindByAccessToken(ctx, "token-b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormUserRepository_DuplicateUsername(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h1", AccessToken: "t1"}))

	err := store.Users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h2", AccessToken: "t2"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	found, err := store.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "t1", found.AccessToken, "the first registration is kept")
}

func TestGormUserRepository_ConcurrentDuplicateSignups(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Users.Create(ctx, &model.User{
				Username:     "alice",
				PasswordHash: "h",
				AccessToken:  fmt.Sprintf("token-%d", i),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrDuplicateKey)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestGormThoughtRepository_ListRecent(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, store.Thoughts.Create(ctx, &model.Thought{
			Username:  "alice",
			Message:   fmt.Sprintf("thought %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	thoughts, err := store.Thoughts.ListRecent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, thoughts, 20)

	assert.Equal(t, "thought 24", thoughts[0].Message)
	assert.Equal(t, "thought 5", thoughts[19].Message)
	for i := 1; i < len(thoughts); i++ {
		assert.False(t, thoughts[i].CreatedAt.After(thoughts[i-1].CreatedAt), "newest first")
	}
}

func TestGormThoughtRepository_ListRecent_Empty(t *testing.T) {
	store := newSQLiteStore(t)

	thoughts, err := store.Thoughts.ListRecent(context.Background(), 20)
	require.NoError(t, err)
	assert.NotNil(t, thoughts)
	assert.Empty(t, thoughts)
}

func TestGormThoughtRepository_IncrementHearts(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	thought := &model.Thought{Username: "alice", Message: "hi", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Thoughts.Create(ctx, thought))
	assert.Equal(t, 0, thought.Hearts)

	liked, err := store.Thoughts.IncrementHearts(ctx, thought.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Hearts)
	assert.Equal(t, "hi", liked.Message)

	_, err = store.Thoughts.IncrementHearts(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormThoughtRepository_ConcurrentLikes(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	thought := &model.Thought{Username: "alice", Message: "popular", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Thoughts.Create(ctx, thought))

	const likes = 50
	var wg sync.WaitGroup
	for i := 0; i < likes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Thoughts.IncrementHearts(ctx, thought.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	thoughts, err := store.Thoughts.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, thoughts, 1)
	assert.Equal(t, likes, thoughts[0].Hearts)
}

func TestStore_PingAndClose(t *testing.T) {
	store := newSQLiteStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	var empty Store
	assert.NoError(t, empty.Ping(context.Background()))
	assert.NoError(t, empty.Close(context.Background()))
}
