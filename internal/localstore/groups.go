package localstore

import (
	"context"
	"fmt"

	"readinggame/internal/models"
)

// GetGroups returns every stored group. An unset difficulty reads back as medium.
func (s *Store) GetGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := load[models.Group](ctx, s, KeyGroups)
	for i := range groups {
		groups[i].Difficulty = groups[i].EffectiveDifficulty()
	}
	return groups, err
}

// SaveGroups overwrites the whole collection without checking parents
func (s *Store) SaveGroups(ctx context.Context, groups []models.Group) error {
	return persist(ctx, s, KeyGroups, groups)
}

// GetGroup returns nil when id is unknown
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// GetGroupsByCategory returns the category's groups in stored order
func (s *Store) GetGroupsByCategory(ctx context.Context, categoryID string) ([]models.Group, error) {
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return []models.Group{}, err
	}
	out := make([]models.Group, 0)
	for _, g := range groups {
		if g.CategoryID == categoryID {
			out = append(out, g)
		}
	}
	return out, nil
}

// AddGroup appends a group under an existing category
func (s *Store) AddGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, group.CategoryID); err != nil {
		return nil, err
	}
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return nil, err
	}

	if group.ID == "" {
		group.ID = newID()
	}
	for _, g := range groups {
		if g.ID == group.ID {
			return nil, fmt.Errorf("group %s: %w", group.ID, models.ErrDuplicateID)
		}
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}

	groups = append(groups, group)
	if err := s.SaveGroups(ctx, groups); err != nil {
		return nil, err
	}
	group.Difficulty = group.EffectiveDifficulty()
	s.log.Debug("Group added", "id", group.ID, "category", group.CategoryID)
	return &group, nil
}

// UpdateGroup merges the supplied fields. An unknown id is a no-op returning nil.
func (s *Store) UpdateGroup(ctx context.Context, id string, update models.GroupUpdate) (*models.Group, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		if groups[i].ID != id {
			continue
		}
		if update.CategoryID != nil && *update.CategoryID != groups[i].CategoryID {
			if err := s.requireCategory(ctx, *update.CategoryID); err != nil {
				return nil, err
			}
		}
		update.Apply(&groups[i])
		groups[i].Difficulty = groups[i].EffectiveDifficulty()
		if err := s.SaveGroups(ctx, groups); err != nil {
			return nil, err
		}
		updated := groups[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteGroup removes the group and its words
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	groups, err := s.GetGroups(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if err := s.SaveGroups(ctx, kept); err != nil {
		return err
	}

	words, err := s.GetWords(ctx)
	if err != nil {
		return err
	}
	keptWords := make([]models.Word, 0, len(words))
	for _, w := range words {
		if w.GroupID != id {
			keptWords = append(keptWords, w)
		}
	}
	if err := s.SaveWords(ctx, keptWords); err != nil {
		return err
	}

	s.log.Debug("Group deleted", "id", id, "words_removed", len(words)-len(keptWords))
	return nil
}

// GetGroupWithWords returns nil when the group does not exist
func (s *Store) GetGroupWithWords(ctx context.Context, id string) (*models.GroupWithWords, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil || group == nil {
		return nil, err
	}
	words, err := s.GetWordsByGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.GroupWithWords{Group: *group, Words: words}, nil
}

func (s *Store) requireCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", id, models.ErrParentNotFound)
	}
	return nil
}
