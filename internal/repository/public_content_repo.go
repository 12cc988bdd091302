package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"readinggame/internal/database"
	"readinggame/internal/logger"
	"readinggame/internal/models"
)

// GetPublicContent returns the first active snapshot, or nil when none is published.
// It needs no signed-in user.
func (r *GameRepository) GetPublicContent(ctx context.Context) (*models.PublicContent, error) {
	query := fmt.Sprintf("SELECT %s FROM public_content WHERE is_active = %s ORDER BY id LIMIT 1",
		publicColumns, r.db.Dialect.BoolValue(true))
	content, err := scanPublicContent(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get public content: %w", err)
	}
	return content, nil
}

// PublicContentRepository writes the preview snapshot. It is kept apart from
// GameRepository, which only reads public_content, so that publishing can be
// limited to administrators.
type PublicContentRepository struct {
	db  *database.DB
	log *logger.Logger
}

// NewPublicContentRepository creates a new public content repository
func NewPublicContentRepository(db *database.DB, log *logger.Logger) *PublicContentRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &PublicContentRepository{db: db, log: log}
}

// Save replaces the snapshot with the same id. Saving an active snapshot
// deactivates every other one first.
func (r *PublicContentRepository) Save(ctx context.Context, content models.PublicContent) error {
	words := content.Words
	if words == nil {
		words = []models.PublicWord{}
	}
	payload, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode public words: %w", err)
	}

	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		if content.IsActive {
			query := fmt.Sprintf("UPDATE public_content SET is_active = %s", r.db.Dialect.BoolValue(false))
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("failed to deactivate public content: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM public_content WHERE id = ?", content.ID); err != nil {
			return fmt.Errorf("failed to replace public content: %w", err)
		}
		query := fmt.Sprintf(`
			INSERT INTO public_content (%s)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, publicColumns)
		if _, err := tx.ExecContext(ctx, query, content.ID, content.CategoryName, content.GroupName,
			nullString(content.GroupDescription), content.FinalRewardText, nullString(content.FinalRewardImage),
			string(payload), content.IsActive); err != nil {
			return fmt.Errorf("failed to save public content: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info("Public content saved", "id", content.ID, "active", content.IsActive, "words", len(words))
	return nil
}
