package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinggame/internal/models"
)

func strPtr(s string) *string { return &s }

// backends returns one store per durable or in-process backend
func backends(t *testing.T) map[string]*Store {
	t.Helper()

	sqliteBackend, err := OpenSQLite(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteBackend.Close() })

	stores := map[string]*Store{
		"memory": New(NewMemoryBackend()),
		"sqlite": New(sqliteBackend),
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ctx := context.Background()
		prefix := "test:" + time.Now().Format("150405.000000") + ":"
		rb, err := NewRedisBackend(ctx, RedisOptions{Addr: addr, Prefix: prefix})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = New(rb).ClearAll(ctx)
			_ = rb.Close()
		})
		stores["redis"] = New(rb)
	}
	return stores
}

func seedTree(t *testing.T, ctx context.Context, s *Store) (*models.Category, *models.Group) {
	t.Helper()
	cat, err := s.AddCategory(ctx, models.Category{Name: "Daily Activities"})
	require.NoError(t, err)
	group, err := s.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Lego Car"})
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		_, err := s.AddWord(ctx, models.Word{GroupID: group.ID, Order: i, ImageSrc: "/images/w.png"})
		require.NoError(t, err)
	}
	return cat, group
}

func TestCategoryLifecycleCascade(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cat, group := seedTree(t, ctx, s)

			words, err := s.GetWordsByGroup(ctx, group.ID)
			require.NoError(t, err)
			require.Len(t, words, 5)
			for i, w := range words {
				assert.Equal(t, i+1, w.Order)
			}

			require.NoError(t, s.DeleteCategory(ctx, cat.ID))

			all, err := s.GetWords(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.NotNil(t, all)

			groups, err := s.GetGroups(ctx)
			require.NoError(t, err)
			assert.Empty(t, groups)

			got, err := s.GetCategory(ctx, cat.ID)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDeleteGroupLeavesSiblings(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	cat, doomed := seedTree(t, ctx, s)
	sibling, err := s.AddGroup(ctx, models.Group{CategoryID: cat.ID, Name: "Animals", FinalRewardText: "Sticker"})
	require.NoError(t, err)
	kept, err := s.AddWord(ctx, models.Word{GroupID: sibling.ID, Text: "kucing", ImageSrc: "/images/kucing.png", Order: 1})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGroup(ctx, doomed.ID))

	words, err := s.GetWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, kept.ID, words[0].ID)

	g, err := s.GetGroup(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestDeleteCategoryRemovesOrphanWords(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	cat, _ := seedTree(t, ctx, s)
	// a word pointing at a group that never existed is swept with the cascade
	words, err := s.GetWords(ctx)
	require.NoError(t, err)
	words = append(words, models.Word{ID: "stray", GroupID: "gone", ImageSrc: "/x.png"})
	require.NoError(t, s.SaveWords(ctx, words))

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	words, err = s.GetWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestGetWordsByGroupOrdering(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	cat, err := s.AddCategory(ctx, models.Category{Name: "Numbers"})
	require.NoError(t, err)
	g1, err := s.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Star"})
	require.NoError(t, err)
	g2, err := s.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Moon"})
	require.NoError(t, err)

	for _, w := range []models.Word{
		{ID: "c", GroupID: g1.ID, Order: 30, ImageSrc: "/c.png"},
		{ID: "other", GroupID: g2.ID, Order: 1, ImageSrc: "/o.png"},
		{ID: "a", GroupID: g1.ID, Order: 2, ImageSrc: "/a.png"},
		{ID: "tie-1", GroupID: g1.ID, Order: 7, ImageSrc: "/t1.png"},
		{ID: "tie-2", GroupID: g1.ID, Order: 7, ImageSrc: "/t2.png"},
	} {
		_, err := s.AddWord(ctx, w)
		require.NoError(t, err)
	}

	words, err := s.GetWordsByGroup(ctx, g1.ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(words))
	for _, w := range words {
		assert.Equal(t, g1.ID, w.GroupID)
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"a", "tie-1", "tie-2", "c"}, ids)

	// moving a word re-sorts it into the target group
	order := 0
	_, err = s.UpdateWord(ctx, "other", models.WordUpdate{GroupID: &g1.ID, Order: &order})
	require.NoError(t, err)
	words, err = s.GetWordsByGroup(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, "other", words[0].ID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(NewMemoryBackend())

	cat, err := s.AddCategory(ctx, models.Category{ID: "c1", Name: "Animals", Icon: "🐄", CreatedAt: created})
	require.NoError(t, err)

	t.Run("empty update keeps record", func(t *testing.T) {
		got, err := s.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *cat, *got)

		stored, err := s.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.True(t, stored.CreatedAt.Equal(created))
	})

	t.Run("partial update", func(t *testing.T) {
		got, err := s.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{Name: strPtr("Pets"), Icon: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "Pets", got.Name)
		assert.Empty(t, got.Icon)
		assert.True(t, got.CreatedAt.Equal(created))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		got, err := s.UpdateCategory(ctx, "missing", models.CategoryUpdate{Name: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := s.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("clearing required field is rejected", func(t *testing.T) {
		_, err := s.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{Name: strPtr(" ")})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("moving group to unknown category", func(t *testing.T) {
		g, err := s.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Cake"})
		require.NoError(t, err)
		_, err = s.UpdateGroup(ctx, g.ID, models.GroupUpdate{CategoryID: strPtr("nope")})
		assert.ErrorIs(t, err, models.ErrParentNotFound)
	})
}

func TestAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	cat, err := s.AddCategory(ctx, models.Category{Name: "Math", Description: "Counting", Icon: "➕"})
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())

	group, err := s.AddGroup(ctx, models.Group{
		CategoryID: cat.ID, Name: "Sums", Difficulty: models.DifficultyHard,
		FinalRewardText: "Trophy", FinalRewardImage: "/images/trophy.png",
	})
	require.NoError(t, err)

	in := models.Word{
		GroupID: group.ID, Text: "2 + 3", ImageSrc: "/images/apples.png", Order: 1,
		ContentType: models.ContentTypeMath, MathQuestion: "2 + 3", MathAnswer: "5", MathOperator: models.OperatorAdd,
	}
	added, err := s.AddWord(ctx, in)
	require.NoError(t, err)

	got, err := s.GetWord(ctx, added.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	in.ID = added.ID
	assert.Equal(t, in, *got)

	gotGroup, err := s.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyHard, gotGroup.Difficulty)
	assert.True(t, gotGroup.CreatedAt.Equal(group.CreatedAt))
}

func TestAddRequiresParent(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	_, err := s.AddGroup(ctx, models.Group{CategoryID: "ghost", FinalRewardText: "x"})
	assert.ErrorIs(t, err, models.ErrParentNotFound)

	_, err = s.AddWord(ctx, models.Word{GroupID: "ghost", ImageSrc: "/x.png"})
	assert.ErrorIs(t, err, models.ErrParentNotFound)

	_, err = s.AddWord(ctx, models.Word{GroupID: "ghost"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetGroupMissing(t *testing.T) {
	s := New(NewMemoryBackend())
	g, err := s.GetGroup(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, g)

	gw, err := s.GetGroupWithWords(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, gw)
}

func TestInitializeDefaultDataIsIdempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			seeded, err := s.InitializeDefaultData(ctx, models.DefaultFixture())
			require.NoError(t, err)
			assert.True(t, seeded)

			seeded, err = s.InitializeDefaultData(ctx, models.DefaultFixture())
			require.NoError(t, err)
			assert.False(t, seeded)

			categories, err := s.GetCategories(ctx)
			require.NoError(t, err)
			groups, err := s.GetGroups(ctx)
			require.NoError(t, err)
			words, err := s.GetWords(ctx)
			require.NoError(t, err)
			assert.Len(t, categories, 1)
			assert.Len(t, groups, 1)
			assert.Len(t, words, 5)
			assert.False(t, categories[0].CreatedAt.IsZero())

			gw, err := s.GetGroupWithWords(ctx, "group-1")
			require.NoError(t, err)
			require.NotNil(t, gw)
			assert.Equal(t, "word-1", gw.Words[0].ID)
		})
	}
}

func TestGetCategoriesWithGroups(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	cat, _ := seedTree(t, ctx, s)
	empty, err := s.AddCategory(ctx, models.Category{Name: "Empty"})
	require.NoError(t, err)

	joined, err := s.GetCategoriesWithGroups(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, cat.ID, joined[0].ID)
	assert.Len(t, joined[0].Groups, 1)
	assert.Equal(t, empty.ID, joined[1].ID)
	assert.NotNil(t, joined[1].Groups)
	assert.Empty(t, joined[1].Groups)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend)
	seedTree(t, ctx, s)

	require.NoError(t, s.ClearAll(ctx))
	for _, key := range []string{KeyCategories, KeyGroups, KeyWords} {
		_, ok, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestStoredLayout(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }))

	_, err := s.AddCategory(ctx, models.Category{ID: "cat-9", Name: "Colors"})
	require.NoError(t, err)

	raw, ok, err := backend.Get(ctx, KeyCategories)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"cat-9","name":"Colors","createdAt":"2024-06-01T00:00:00Z"}]`, raw)
}

func TestCorruptCollection(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, KeyWords, "{not json"))

	words, err := New(backend).GetWords(ctx)
	assert.Error(t, err)
	assert.NotNil(t, words)
	assert.Empty(t, words)
}

func TestUnavailableBackend(t *testing.T) {
	ctx := context.Background()
	s := New(UnavailableBackend{})

	assert.False(t, s.Available(ctx))

	categories, err := s.GetCategories(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	words, err := s.GetWordsByGroup(ctx, "g")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, words)

	_, err = s.AddCategory(ctx, models.Category{Name: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, s.DeleteCategory(ctx, "x"), ErrUnavailable)
	assert.ErrorIs(t, s.ClearAll(ctx), ErrUnavailable)

	_, err = s.InitializeDefaultData(ctx, models.DefaultFixture())
	assert.ErrorIs(t, err, ErrUnavailable)

	// a nil backend is treated the same way
	_, err = New(nil).GetGroups(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAddDuplicateID(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.AddCategory(ctx, models.Category{ID: "c1", Name: "Animals"})
			require.NoError(t, err)
			_, err = s.AddCategory(ctx, models.Category{ID: "c1", Name: "Again"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)

			_, err = s.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "x"})
			require.NoError(t, err)
			_, err = s.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "y"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)

			_, err = s.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/x.png"})
			require.NoError(t, err)
			_, err = s.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/y.png"})
			assert.ErrorIs(t, err, models.ErrDuplicateID)

			categories, err := s.GetCategories(ctx)
			require.NoError(t, err)
			require.Len(t, categories, 1)
			assert.Equal(t, "Animals", categories[0].Name)
			groups, err := s.GetGroups(ctx)
			require.NoError(t, err)
			assert.Len(t, groups, 1)
			words, err := s.GetWords(ctx)
			require.NoError(t, err)
			assert.Len(t, words, 1)
		})
	}
}

func TestReadDefaults(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, KeyGroups, `[{"id":"g1","categoryId":"c1","finalRewardText":"x"}]`))
	require.NoError(t, backend.Set(ctx, KeyWords, `[{"id":"w1","groupId":"g1","imageSrc":"/x.png","order":1}]`))
	s := New(backend)

	group, err := s.GetGroup(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, models.DifficultyMedium, group.Difficulty)

	words, err := s.GetWordsByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, models.ContentTypeWord, words[0].ContentType)
}
