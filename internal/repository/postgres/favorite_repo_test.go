package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/repository/postgres"
	"github.com/dom/pitcher-favorites/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFavoriteRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewFavoriteRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pitcher := testutil.NewPitcherBuilder().Build(t, testDB.DB)

	newFavorite := func() *domain.FavoritePitcher {
		return &domain.FavoritePitcher{
			ID:        uuid.New(),
			UserID:    user.ID,
			PitcherID: pitcher.ID,
			CreatedAt: time.Now(),
		}
	}

	require.NoError(t, repo.Create(ctx, newFavorite()))

	err := repo.Create(ctx, newFavorite())
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFavoriteRepository_ListByUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewFavoriteRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pitchers := testutil.SeedPitchers(t, testDB.DB, 3)

	// Insert out of name order so the result order comes from created_at
	testutil.AddFavorite(t, testDB.DB, user, pitchers[2])
	testutil.AddFavorite(t, testDB.DB, user, pitchers[0])
	testutil.AddFavorite(t, testDB.DB, other, pitchers[1])

	favorites, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	require.NotNil(t, favorites[0].Pitcher)
	assert.Equal(t, pitchers[2].PlayerName, favorites[0].Pitcher.PlayerName)
	assert.Equal(t, pitchers[0].PlayerName, favorites[1].Pitcher.PlayerName)

	assert.Equal(t, int64(2), countFavorites(t, testDB.DB, user.ID))

	empty, err := repo.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFavoriteRepository_DeleteForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewFavoriteRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	intruder, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pitcher := testutil.NewPitcherBuilder().Build(t, testDB.DB)
	favorite := testutil.AddFavorite(t, testDB.DB, owner, pitcher)

	deleted, err := repo.DeleteForUser(ctx, favorite.ID, intruder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted, "other users cannot delete the link")

	deleted, err = repo.DeleteForUser(ctx, favorite.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestFavoriteRepository_DeleteByUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewFavoriteRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pitchers := testutil.SeedPitchers(t, testDB.DB, 2)
	testutil.AddFavorite(t, testDB.DB, user, pitchers[0])
	testutil.AddFavorite(t, testDB.DB, user, pitchers[1])
	testutil.AddFavorite(t, testDB.DB, other, pitchers[0])

	deleted, err := repo.DeleteByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.Equal(t, int64(1), countFavorites(t, testDB.DB, other.ID))
}

func TestFavoriteRepository_CascadeOnPitcherDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewFavoriteRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pitcher := testutil.NewPitcherBuilder().Build(t, testDB.DB)
	testutil.AddFavorite(t, testDB.DB, user, pitcher)

	require.NoError(t, testDB.DB.Delete(&domain.Pitcher{}, "id = ?", pitcher.ID).Error)

	favorites, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func countFavorites(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&domain.FavoritePitcher{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}
