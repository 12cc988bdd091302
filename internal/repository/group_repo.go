package repository

import (
	"context"
	"database/sql"
	"fmt"

	"readinggame/internal/models"
)

func (r *GameRepository) GetGroups(ctx context.Context) ([]models.Group, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? ORDER BY %s", groupColumns, r.groupsTable(), r.createdOrder())
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	groups, err := collectGroups(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	return groups, nil
}

func (r *GameRepository) GetGroupsByCategory(ctx context.Context, categoryID string) ([]models.Group, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE category_id = ? AND user_id = ? ORDER BY %s",
		groupColumns, r.groupsTable(), r.createdOrder())
	rows, err := r.db.QueryContext(ctx, query, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups for category: %w", err)
	}
	groups, err := collectGroups(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups for category: %w", err)
	}
	return groups, nil
}

// GetGroup retrieves a group by ID, or nil if it does not exist
func (r *GameRepository) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND user_id = ?", groupColumns, r.groupsTable())
	group, err := scanGroup(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// AddGroup inserts a group under an existing category
func (r *GameRepository) AddGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := r.requireCategory(ctx, group.CategoryID); err != nil {
		return nil, err
	}
	if group.ID == "" {
		group.ID = newID()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = r.now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, category_id, name, description, difficulty, final_reward_text, final_reward_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.groupsTable())
	if _, err := r.db.ExecContext(ctx, query, group.ID, userID, group.CategoryID, group.Name,
		nullString(group.Description), string(group.EffectiveDifficulty()), group.FinalRewardText,
		nullString(group.FinalRewardImage), group.CreatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("group %s: %w", group.ID, models.ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	r.log.Debug("Group created", "id", group.ID, "category_id", group.CategoryID)
	return r.GetGroup(ctx, group.ID)
}

// UpdateGroup writes only the supplied fields. A missing group is a no-op returning nil.
func (r *GameRepository) UpdateGroup(ctx context.Context, id string, update models.GroupUpdate) (*models.Group, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	current, err := r.GetGroup(ctx, id)
	if err != nil || current == nil || update.IsEmpty() {
		return current, err
	}

	var set setClause
	if update.CategoryID != nil {
		if *update.CategoryID != current.CategoryID {
			if err := r.requireCategory(ctx, *update.CategoryID); err != nil {
				return nil, err
			}
		}
		set.add("category_id", *update.CategoryID)
	}
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", nullString(*update.Description))
	}
	if update.Difficulty != nil {
		set.add("difficulty", nullString(string(*update.Difficulty)))
	}
	if update.FinalRewardText != nil {
		set.add("final_reward_text", *update.FinalRewardText)
	}
	if update.FinalRewardImage != nil {
		set.add("final_reward_image", nullString(*update.FinalRewardImage))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND user_id = ?", r.groupsTable(), set.sql())
	args := append(set.args, id, userID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return r.GetGroup(ctx, id)
}

// DeleteGroup removes the group's words, then the group
func (r *GameRepository) DeleteGroup(ctx context.Context, id string) error {
	userID, err := r.owner(ctx)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM words WHERE group_id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("failed to delete group words: %w", err)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", r.groupsTable())
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	r.log.Debug("Group deleted", "id", id, "user_id", userID)
	return nil
}

// GetGroupWithWords returns nil when the group does not exist
func (r *GameRepository) GetGroupWithWords(ctx context.Context, id string) (*models.GroupWithWords, error) {
	group, err := r.GetGroup(ctx, id)
	if err != nil || group == nil {
		return nil, err
	}
	words, err := r.GetWordsByGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.GroupWithWords{Group: *group, Words: words}, nil
}

func (r *GameRepository) requireGroup(ctx context.Context, id string) error {
	group, err := r.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s: %w", id, models.ErrParentNotFound)
	}
	return nil
}
