package repository

import (
	"context"
	"database/sql"
	"fmt"

	"readinggame/internal/models"
)

// GetCategories returns the user's categories ordered by creation time
func (r *GameRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM categories WHERE user_id = ? ORDER BY %s", categoryColumns, r.createdOrder())
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	categories, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by ID, or nil if it does not exist
func (r *GameRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = ? AND user_id = ?", categoryColumns)
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// AddCategory inserts a category and returns it as stored
func (r *GameRepository) AddCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if category.ID == "" {
		category.ID = newID()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = r.now()
	}

	query := `
		INSERT INTO categories (id, user_id, name, description, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, category.ID, userID, category.Name,
		nullString(category.Description), nullString(category.Icon), category.CreatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category %s: %w", category.ID, models.ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	r.log.Debug("Category created", "id", category.ID, "user_id", userID)
	return r.GetCategory(ctx, category.ID)
}

// UpdateCategory writes only the supplied fields. A missing category is a no-op
// returning nil.
func (r *GameRepository) UpdateCategory(ctx context.Context, id string, update models.CategoryUpdate) (*models.Category, error) {
	userID, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return r.GetCategory(ctx, id)
	}

	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", nullString(*update.Description))
	}
	if update.Icon != nil {
		set.add("icon", nullString(*update.Icon))
	}

	query := fmt.Sprintf("UPDATE categories SET %s WHERE id = ? AND user_id = ?", set.sql())
	args := append(set.args, id, userID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return r.GetCategory(ctx, id)
}

// DeleteCategory removes the words of the category's groups, then the groups, then
// the category. The steps are not atomic; the first failure stops the rest.
func (r *GameRepository) DeleteCategory(ctx context.Context, id string) error {
	userID, err := r.owner(ctx)
	if err != nil {
		return err
	}

	wordsQuery := fmt.Sprintf(`
		DELETE FROM words
		WHERE user_id = ? AND group_id IN (SELECT id FROM %s WHERE category_id = ? AND user_id = ?)
	`, r.groupsTable())
	if _, err := r.db.ExecContext(ctx, wordsQuery, userID, id, userID); err != nil {
		return fmt.Errorf("failed to delete category words: %w", err)
	}

	groupsQuery := fmt.Sprintf("DELETE FROM %s WHERE category_id = ? AND user_id = ?", r.groupsTable())
	if _, err := r.db.ExecContext(ctx, groupsQuery, id, userID); err != nil {
		return fmt.Errorf("failed to delete category groups: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	r.log.Debug("Category deleted", "id", id, "user_id", userID)
	return nil
}

// GetCategoriesWithGroups reads categories and groups separately and joins them
func (r *GameRepository) GetCategoriesWithGroups(ctx context.Context) ([]models.CategoryWithGroups, error) {
	categories, err := r.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := r.GetGroups(ctx)
	if err != nil {
		return nil, err
	}

	return models.JoinCategories(categories, groups), nil
}

func (r *GameRepository) requireCategory(ctx context.Context, id string) error {
	category, err := r.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", id, models.ErrParentNotFound)
	}
	return nil
}
