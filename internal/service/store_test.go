package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinggame/internal/identity"
	"readinggame/internal/localstore"
	"readinggame/internal/models"
	"readinggame/internal/repository"
)

type storeCase struct {
	store GameStore
	ctx   context.Context
}

// bothStores returns the local and remote stores with a context each accepts
func bothStores(t *testing.T) map[string]storeCase {
	t.Helper()
	return map[string]storeCase{
		"local":  {store: localstore.New(localstore.NewMemoryBackend()), ctx: context.Background()},
		"remote": {store: repository.NewGameRepository(setupTestDB(t)), ctx: identity.WithUserID(context.Background(), "user-1")},
	}
}

func TestStoresAgree(t *testing.T) {
	for name, tc := range bothStores(t) {
		t.Run(name, func(t *testing.T) {
			s, ctx := tc.store, tc.ctx

			cat, err := s.AddCategory(ctx, models.Category{ID: "c1", Name: "Animals"})
			require.NoError(t, err)
			assert.Empty(t, cat.Icon)

			group, err := s.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "Sticker"})
			require.NoError(t, err)
			assert.Equal(t, models.DifficultyMedium, group.Difficulty)

			word, err := s.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/images/cat.png", Order: 1})
			require.NoError(t, err)
			assert.Equal(t, models.ContentTypeWord, word.ContentType)

			gotGroup, err := s.GetGroup(ctx, "g1")
			require.NoError(t, err)
			require.NotNil(t, gotGroup)
			assert.Equal(t, models.DifficultyMedium, gotGroup.Difficulty)

			gotWord, err := s.GetWord(ctx, "w1")
			require.NoError(t, err)
			require.NotNil(t, gotWord)
			assert.Equal(t, models.ContentTypeWord, gotWord.ContentType)

			gotCat, err := s.GetCategory(ctx, "c1")
			require.NoError(t, err)
			require.NotNil(t, gotCat)
			assert.Empty(t, gotCat.Icon)

			_, err = s.AddCategory(ctx, models.Category{ID: "c1", Name: "Again"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)
			_, err = s.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "x"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)
			_, err = s.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/x.png"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)

			categories, err := s.GetCategories(ctx)
			require.NoError(t, err)
			require.Len(t, categories, 1)
			assert.Equal(t, "Animals", categories[0].Name)

			_, err = s.AddGroup(ctx, models.Group{CategoryID: "ghost", FinalRewardText: "x"})
			assert.ErrorIs(t, err, models.ErrParentNotFound)

			require.NoError(t, s.DeleteCategory(ctx, "c1"))
			words, err := s.GetWords(ctx)
			require.NoError(t, err)
			assert.Empty(t, words)
		})
	}
}
