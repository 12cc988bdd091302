package repository

import (
	"context"
	"database/sql"
	"fmt"

	"readinggame/internal/models"
)

const wordOrder = "order_position ASC, created_at ASC, id ASC"

func (r *GameRepository) GetWords(ctx context.Context) ([]models.Word, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM words WHERE user_id = ? ORDER BY %s", wordColumns, wordOrder)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	words, err := collectWords(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetWordsByGroup returns the group's words in play order
func (r *GameRepository) GetWordsByGroup(ctx context.Context, groupID string) ([]models.Word, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM words WHERE group_id = ? AND user_id = ? ORDER BY %s", wordColumns, wordOrder)
	rows, err := r.db.QueryContext(ctx, query, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words for group: %w", err)
	}
	words, err := collectWords(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get words for group: %w", err)
	}
	return words, nil
}

// GetWord retrieves a word by ID, or nil if it does not exist
func (r *GameRepository) GetWord(ctx context.Context, id string) (*models.Word, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM words WHERE id = ? AND user_id = ?", wordColumns)
	word, err := scanWord(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// AddWord inserts a word under an existing group
func (r *GameRepository) AddWord(ctx context.Context, word models.Word) (*models.Word, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := word.Validate(); err != nil {
		return nil, err
	}
	if err := r.requireGroup(ctx, word.GroupID); err != nil {
		return nil, err
	}
	if word.ID == "" {
		word.ID = newID()
	}

	query := `
		INSERT INTO words (id, user_id, group_id, text, image_src, order_position, content_type,
			math_question, math_answer, math_operator, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, word.ID, userID, word.GroupID, word.Text, word.ImageSrc,
		word.Order, string(word.EffectiveContentType()), nullString(word.MathQuestion),
		nullString(word.MathAnswer), nullString(string(word.MathOperator)), r.now()); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("word %s: %w", word.ID, models.ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	return r.GetWord(ctx, word.ID)
}

// UpdateWord writes only the supplied fields. A missing word is a no-op returning nil.
func (r *GameRepository) UpdateWord(ctx context.Context, id string, update models.WordUpdate) (*models.Word, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	current, err := r.GetWord(ctx, id)
	if err != nil || current == nil || update.IsEmpty() {
		return current, err
	}

	merged := *current
	update.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	var set setClause
	if update.GroupID != nil {
		if *update.GroupID != current.GroupID {
			if err := r.requireGroup(ctx, *update.GroupID); err != nil {
				return nil, err
			}
		}
		set.add("group_id", *update.GroupID)
	}
	if update.Text != nil {
		set.add("text", *update.Text)
	}
	if update.ImageSrc != nil {
		set.add("image_src", *update.ImageSrc)
	}
	if update.Order != nil {
		set.add("order_position", *update.Order)
	}
	if update.ContentType != nil {
		set.add("content_type", nullString(string(*update.ContentType)))
	}
	if update.MathQuestion != nil {
		set.add("math_question", nullString(*update.MathQuestion))
	}
	if update.MathAnswer != nil {
		set.add("math_answer", nullString(*update.MathAnswer))
	}
	if update.MathOperator != nil {
		set.add("math_operator", nullString(string(*update.MathOperator)))
	}

	query := fmt.Sprintf("UPDATE words SET %s WHERE id = ? AND user_id = ?", set.sql())
	args := append(set.args, id, userID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update word: %w", err)
	}
	return r.GetWord(ctx, id)
}

func (r *GameRepository) DeleteWord(ctx context.Context, id string) error {
	userID, err := r.owner(ctx)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM words WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}
