package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"readinggame/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	categoryColumns = "id, name, description, icon, created_at"
	groupColumns    = "id, category_id, name, description, difficulty, final_reward_text, final_reward_image, created_at"
	wordColumns     = "id, group_id, text, image_src, order_position, content_type, math_question, math_answer, math_operator"
	publicColumns   = "id, category_name, group_name, group_description, final_reward_text, final_reward_image, words, is_active"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	var description, icon sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &description, &icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Icon = icon.String
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var g models.Group
	var description, difficulty, rewardImage sql.NullString
	if err := row.Scan(&g.ID, &g.CategoryID, &g.Name, &description, &difficulty,
		&g.FinalRewardText, &rewardImage, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.Description = description.String
	g.Difficulty = models.Difficulty(difficulty.String)
	g.Difficulty = g.EffectiveDifficulty()
	g.FinalRewardImage = rewardImage.String
	g.CreatedAt = g.CreatedAt.UTC()
	return &g, nil
}

func scanWord(row rowScanner) (*models.Word, error) {
	var w models.Word
	var contentType, question, answer, operator sql.NullString
	if err := row.Scan(&w.ID, &w.GroupID, &w.Text, &w.ImageSrc, &w.Order,
		&contentType, &question, &answer, &operator); err != nil {
		return nil, err
	}
	w.ContentType = models.ContentType(contentType.String)
	w.ContentType = w.EffectiveContentType()
	w.MathQuestion = question.String
	w.MathAnswer = answer.String
	w.MathOperator = models.MathOperator(operator.String)
	return &w, nil
}

func scanPublicContent(row rowScanner) (*models.PublicContent, error) {
	var p models.PublicContent
	var description, rewardImage sql.NullString
	var words []byte
	if err := row.Scan(&p.ID, &p.CategoryName, &p.GroupName, &description,
		&p.FinalRewardText, &rewardImage, &words, &p.IsActive); err != nil {
		return nil, err
	}
	p.GroupDescription = description.String
	p.FinalRewardImage = rewardImage.String
	p.Words = []models.PublicWord{}
	if len(words) > 0 {
		if err := json.Unmarshal(words, &p.Words); err != nil {
			return nil, fmt.Errorf("failed to decode public words: %w", err)
		}
	}
	return &p, nil
}

func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()
	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func collectGroups(rows *sql.Rows) ([]models.Group, error) {
	defer rows.Close()
	out := []models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func collectWords(rows *sql.Rows) ([]models.Word, error) {
	defer rows.Close()
	out := []models.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}
