package localstore

import (
	"context"
	"fmt"

	"readinggame/internal/models"
)

// GetWords returns every stored word. An unset content type reads back as word.
func (s *Store) GetWords(ctx context.Context) ([]models.Word, error) {
	words, err := load[models.Word](ctx, s, KeyWords)
	for i := range words {
		words[i].ContentType = words[i].EffectiveContentType()
	}
	return words, err
}

// SaveWords overwrites the whole collection without checking parents
func (s *Store) SaveWords(ctx context.Context, words []models.Word) error {
	return persist(ctx, s, KeyWords, words)
}

// GetWord returns nil when id is unknown
func (s *Store) GetWord(ctx context.Context, id string) (*models.Word, error) {
	words, err := s.GetWords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range words {
		if words[i].ID == id {
			return &words[i], nil
		}
	}
	return nil, nil
}

// GetWordsByGroup returns the group's words ascending by Order; equal orders keep
// their stored sequence
func (s *Store) GetWordsByGroup(ctx context.Context, groupID string) ([]models.Word, error) {
	words, err := s.GetWords(ctx)
	if err != nil {
		return []models.Word{}, err
	}
	out := make([]models.Word, 0)
	for _, w := range words {
		if w.GroupID == groupID {
			out = append(out, w)
		}
	}
	models.SortWordsByOrder(out)
	return out, nil
}

// AddWord appends a word under an existing group
func (s *Store) AddWord(ctx context.Context, word models.Word) (*models.Word, error) {
	if err := word.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireGroup(ctx, word.GroupID); err != nil {
		return nil, err
	}
	words, err := s.GetWords(ctx)
	if err != nil {
		return nil, err
	}

	if word.ID == "" {
		word.ID = newID()
	}
	for _, w := range words {
		if w.ID == word.ID {
			return nil, fmt.Errorf("word %s: %w", word.ID, models.ErrDuplicateID)
		}
	}

	words = append(words, word)
	if err := s.SaveWords(ctx, words); err != nil {
		return nil, err
	}
	word.ContentType = word.EffectiveContentType()
	s.log.Debug("Word added", "id", word.ID, "group", word.GroupID)
	return &word, nil
}

// UpdateWord merges the supplied fields. An unknown id is a no-op returning nil.
func (s *Store) UpdateWord(ctx context.Context, id string, update models.WordUpdate) (*models.Word, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	words, err := s.GetWords(ctx)
	if err != nil {
		return nil, err
	}

	for i := range words {
		if words[i].ID != id {
			continue
		}
		if update.GroupID != nil && *update.GroupID != words[i].GroupID {
			if err := s.requireGroup(ctx, *update.GroupID); err != nil {
				return nil, err
			}
		}
		merged := words[i]
		update.Apply(&merged)
		merged.ContentType = merged.EffectiveContentType()
		if err := merged.Validate(); err != nil {
			return nil, err
		}
		words[i] = merged
		if err := s.SaveWords(ctx, words); err != nil {
			return nil, err
		}
		return &merged, nil
	}
	return nil, nil
}

// DeleteWord removes one word. An unknown id is not an error.
func (s *Store) DeleteWord(ctx context.Context, id string) error {
	words, err := s.GetWords(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Word, 0, len(words))
	for _, w := range words {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	return s.SaveWords(ctx, kept)
}

func (s *Store) requireGroup(ctx context.Context, id string) error {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s: %w", id, models.ErrParentNotFound)
	}
	return nil
}
