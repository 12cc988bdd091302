package localstore

import (
	"context"
	"fmt"

	"readinggame/internal/models"
)

// GetCategories returns every stored category in insertion order
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	return load[models.Category](ctx, s, KeyCategories)
}

// SaveCategories overwrites the whole collection
func (s *Store) SaveCategories(ctx context.Context, categories []models.Category) error {
	return persist(ctx, s, KeyCategories, categories)
}

// GetCategory returns nil when id is unknown
func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// AddCategory appends a category, assigning ID and CreatedAt when they are empty.
// A supplied ID that is already stored fails with models.ErrDuplicateID.
func (s *Store) AddCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	if category.ID == "" {
		category.ID = newID()
	}
	for _, c := range categories {
		if c.ID == category.ID {
			return nil, fmt.Errorf("category %s: %w", category.ID, models.ErrDuplicateID)
		}
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = s.now()
	}

	categories = append(categories, category)
	if err := s.SaveCategories(ctx, categories); err != nil {
		return nil, err
	}
	s.log.Debug("Category added", "id", category.ID)
	return &category, nil
}

// UpdateCategory merges the supplied fields. An unknown id is a no-op returning nil.
func (s *Store) UpdateCategory(ctx context.Context, id string, update models.CategoryUpdate) (*models.Category, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	for i := range categories {
		if categories[i].ID != id {
			continue
		}
		update.Apply(&categories[i])
		if err := s.SaveCategories(ctx, categories); err != nil {
			return nil, err
		}
		updated := categories[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteCategory removes the category, its groups and every word left without a group
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return err
	}
	keptCategories := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != id {
			keptCategories = append(keptCategories, c)
		}
	}
	if err := s.SaveCategories(ctx, keptCategories); err != nil {
		return err
	}

	groups, err := s.GetGroups(ctx)
	if err != nil {
		return err
	}
	keptGroups := make([]models.Group, 0, len(groups))
	remaining := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.CategoryID == id {
			continue
		}
		keptGroups = append(keptGroups, g)
		remaining[g.ID] = struct{}{}
	}
	if err := s.SaveGroups(ctx, keptGroups); err != nil {
		return err
	}

	words, err := s.GetWords(ctx)
	if err != nil {
		return err
	}
	keptWords := make([]models.Word, 0, len(words))
	for _, w := range words {
		if _, ok := remaining[w.GroupID]; ok {
			keptWords = append(keptWords, w)
		}
	}
	if err := s.SaveWords(ctx, keptWords); err != nil {
		return err
	}

	s.log.Debug("Category deleted", "id", id,
		"groups_removed", len(groups)-len(keptGroups),
		"words_removed", len(words)-len(keptWords))
	return nil
}

// GetCategoriesWithGroups joins every category with its groups
func (s *Store) GetCategoriesWithGroups(ctx context.Context) ([]models.CategoryWithGroups, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return []models.CategoryWithGroups{}, err
	}
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return []models.CategoryWithGroups{}, err
	}
	return models.JoinCategories(categories, groups), nil
}
