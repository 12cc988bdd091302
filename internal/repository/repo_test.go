package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinggame/internal/database"
	"readinggame/internal/identity"
	"readinggame/internal/models"
	"readinggame/migrations"
)

func strPtr(s string) *string { return &s }

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.RunMigrations(context.Background(), migrations.FS)
	require.NoError(t, err)
	return db
}

func userCtx(userID string) context.Context {
	return identity.WithUserID(context.Background(), userID)
}

func seedTree(t *testing.T, ctx context.Context, r *GameRepository) (*models.Category, *models.Group) {
	t.Helper()
	cat, err := r.AddCategory(ctx, models.Category{Name: "Daily Activities"})
	require.NoError(t, err)
	group, err := r.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Lego Car"})
	require.NoError(t, err)
	for _, order := range []int{3, 1, 5, 2, 4} {
		_, err := r.AddWord(ctx, models.Word{GroupID: group.ID, Order: order, ImageSrc: "/images/w.png"})
		require.NoError(t, err)
	}
	return cat, group
}

func TestCategoryCascade(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")

	cat, group := seedTree(t, ctx, r)

	words, err := r.GetWordsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, words, 5)
	for i, w := range words {
		assert.Equal(t, i+1, w.Order)
	}

	require.NoError(t, r.DeleteCategory(ctx, cat.ID))

	all, err := r.GetWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	groups, err := r.GetGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
	got, err := r.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteGroupKeepsSiblings(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")

	cat, doomed := seedTree(t, ctx, r)
	sibling, err := r.AddGroup(ctx, models.Group{CategoryID: cat.ID, Name: "Animals", FinalRewardText: "Sticker"})
	require.NoError(t, err)
	kept, err := r.AddWord(ctx, models.Word{GroupID: sibling.ID, Text: "kucing", ImageSrc: "/k.png", Order: 1})
	require.NoError(t, err)

	require.NoError(t, r.DeleteGroup(ctx, doomed.ID))

	words, err := r.GetWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, kept.ID, words[0].ID)
}

func TestPointLookupsMissing(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")

	g, err := r.GetGroup(ctx, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, g)

	w, err := r.GetWord(ctx, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, w)

	gw, err := r.GetGroupWithWords(ctx, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, gw)
}

func TestRequiresUser(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := r.GetCategories(ctx)
	assert.ErrorIs(t, err, identity.ErrNotAuthenticated)
	_, err = r.AddCategory(ctx, models.Category{Name: "x"})
	assert.ErrorIs(t, err, identity.ErrNotAuthenticated)
	assert.ErrorIs(t, r.DeleteGroup(ctx, "g"), identity.ErrNotAuthenticated)

	content, err := r.GetPublicContent(ctx)
	assert.NoError(t, err)
	assert.Nil(t, content)
}

func TestUserScoping(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	alice := userCtx("alice")
	bob := userCtx("bob")

	cat, err := r.AddCategory(alice, models.Category{Name: "Alice's"})
	require.NoError(t, err)

	got, err := r.GetCategory(bob, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = r.AddGroup(bob, models.Group{CategoryID: cat.ID, FinalRewardText: "x"})
	assert.ErrorIs(t, err, models.ErrParentNotFound)

	require.NoError(t, r.DeleteCategory(bob, cat.ID))
	got, err = r.GetCategory(alice, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCreatedAtOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := userCtx("user-1")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	asc := NewGameRepository(db)
	for i, name := range []string{"first", "second", "third"} {
		_, err := asc.AddCategory(ctx, models.Category{ID: name, Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	names := func(cs []models.Category) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	got, err := asc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names(got))

	desc := NewGameRepository(db, WithCreatedAtOrder(ParseSortDirection("DESC")))
	got, err = desc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, names(got))
	assert.True(t, got[2].CreatedAt.Equal(base))
}

func TestUpdates(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	cat, err := r.AddCategory(ctx, models.Category{Name: "Animals", Icon: "🐄", Description: "Farm", CreatedAt: created})
	require.NoError(t, err)

	t.Run("empty update keeps record", func(t *testing.T) {
		got, err := r.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{})
		require.NoError(t, err)
		assert.Equal(t, cat.Name, got.Name)
		assert.True(t, got.CreatedAt.Equal(created))
	})

	t.Run("partial update clears optional", func(t *testing.T) {
		got, err := r.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{Icon: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "Animals", got.Name)
		assert.Equal(t, "Farm", got.Description)
		assert.Empty(t, got.Icon)
		assert.True(t, got.CreatedAt.Equal(created))
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		got, err := r.UpdateCategory(ctx, "nope", models.CategoryUpdate{Name: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("group difficulty defaults and updates", func(t *testing.T) {
		g, err := r.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Cake"})
		require.NoError(t, err)
		assert.Equal(t, models.DifficultyMedium, g.Difficulty)

		hard := models.DifficultyHard
		g, err = r.UpdateGroup(ctx, g.ID, models.GroupUpdate{Difficulty: &hard})
		require.NoError(t, err)
		assert.Equal(t, models.DifficultyHard, g.Difficulty)
		assert.Equal(t, "Cake", g.FinalRewardText)

		_, err = r.UpdateGroup(ctx, g.ID, models.GroupUpdate{CategoryID: strPtr("ghost")})
		assert.ErrorIs(t, err, models.ErrParentNotFound)
	})

	t.Run("word becomes math item", func(t *testing.T) {
		g, err := r.AddGroup(ctx, models.Group{CategoryID: cat.ID, FinalRewardText: "Star"})
		require.NoError(t, err)
		w, err := r.AddWord(ctx, models.Word{GroupID: g.ID, Text: "dua", ImageSrc: "/2.png", Order: 1})
		require.NoError(t, err)
		assert.Equal(t, models.ContentTypeWord, w.ContentType)

		math := models.ContentTypeMath
		_, err = r.UpdateWord(ctx, w.ID, models.WordUpdate{ContentType: &math})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)

		op := models.OperatorDivide
		w, err = r.UpdateWord(ctx, w.ID, models.WordUpdate{
			ContentType: &math, MathQuestion: strPtr("6 ÷ 3"), MathAnswer: strPtr("2"), MathOperator: &op,
		})
		require.NoError(t, err)
		assert.True(t, w.IsMath())
		assert.Equal(t, models.OperatorDivide, w.MathOperator)
		assert.Equal(t, "dua", w.Text)
	})
}

func TestAddRoundTrip(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")

	cat, err := r.AddCategory(ctx, models.Category{ID: "cat-1", Name: "Math", Icon: "➕"})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())

	group, err := r.AddGroup(ctx, models.Group{
		CategoryID: cat.ID, Name: "Sums", Description: "Adding", Difficulty: models.DifficultyEasy,
		FinalRewardText: "Trophy", FinalRewardImage: "/images/trophy.png",
	})
	require.NoError(t, err)

	in := models.Word{
		ID: "w-1", GroupID: group.ID, Text: "2 + 3", ImageSrc: "/images/apples.png", Order: 4,
		ContentType: models.ContentTypeMath, MathQuestion: "2 + 3", MathAnswer: "5", MathOperator: models.OperatorAdd,
	}
	_, err = r.AddWord(ctx, in)
	require.NoError(t, err)

	got, err := r.GetWord(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, in, *got)

	gotGroup, err := r.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adding", gotGroup.Description)
	assert.Equal(t, models.DifficultyEasy, gotGroup.Difficulty)
	assert.Equal(t, "/images/trophy.png", gotGroup.FinalRewardImage)

	joined, err := r.GetCategoriesWithGroups(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Len(t, joined[0].Groups, 1)
}

func TestPublicContent(t *testing.T) {
	db := setupTestDB(t)
	r := NewGameRepository(db)
	public := NewPublicContentRepository(db, nil)
	ctx := context.Background()

	got, err := r.GetPublicContent(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := models.PublicContent{
		ID: "group-1", CategoryName: "Daily Activities", GroupName: "Playing", FinalRewardText: "Lego Car",
		Words:    []models.PublicWord{{ID: "w1", Text: "bola", ImageSrc: "/images/bola.png", Order: 1}},
		IsActive: true,
	}
	require.NoError(t, public.Save(ctx, first))

	inactive := models.PublicContent{ID: "older", CategoryName: "Old", GroupName: "Old", FinalRewardText: "x"}
	require.NoError(t, public.Save(ctx, inactive))

	got, err = r.GetPublicContent(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	second := first
	second.ID = "group-2"
	second.Words = nil
	require.NoError(t, public.Save(ctx, second))

	got, err = r.GetPublicContent(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "group-2", got.ID)
	assert.NotNil(t, got.Words)
	assert.Empty(t, got.Words)
}

func TestAddDuplicateID(t *testing.T) {
	r := NewGameRepository(setupTestDB(t))
	ctx := userCtx("user-1")

	_, err := r.AddCategory(ctx, models.Category{ID: "c1", Name: "Animals"})
	require.NoError(t, err)
	_, err = r.AddCategory(ctx, models.Category{ID: "c1", Name: "Again"})
	assert.ErrorIs(t, err, models.ErrDuplicateID)

	_, err = r.AddCategory(userCtx("user-2"), models.Category{ID: "c1", Name: "Other owner"})
	assert.ErrorIs(t, err, models.ErrDuplicateID)

	_, err = r.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "x"})
	require.NoError(t, err)
	_, err = r.AddGroup(ctx, models.Group{ID: "g1", CategoryID: "c1", FinalRewardText: "y"})
	assert.ErrorIs(t, err, models.ErrDuplicateID)

	_, err = r.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/x.png"})
	require.NoError(t, err)
	_, err = r.AddWord(ctx, models.Word{ID: "w1", GroupID: "g1", ImageSrc: "/y.png"})
	assert.ErrorIs(t, err, models.ErrDuplicateID)

	categories, err := r.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Animals", categories[0].Name)
}

func TestFailedChildDeleteKeepsParent(t *testing.T) {
	db := setupTestDB(t)
	r := NewGameRepository(db)
	ctx := userCtx("user-1")
	cat, group := seedTree(t, ctx, r)

	_, err := db.ExecContext(context.Background(), "ALTER TABLE words RENAME TO words_gone")
	require.NoError(t, err)

	err = r.DeleteGroup(ctx, group.ID)
	assert.Error(t, err)
	err = r.DeleteCategory(ctx, cat.ID)
	assert.Error(t, err)

	gotGroup, err := r.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotGroup)
	gotCat, err := r.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotCat)
}
