package models

import "time"

// Difficulty is the difficulty level of a group
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known levels. The empty value is valid and
// reads as medium.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Group is a themed set of words under one category with a completion reward
type Group struct {
	ID               string     `json:"id"`
	CategoryID       string     `json:"categoryId"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Difficulty       Difficulty `json:"difficulty,omitempty"`
	FinalRewardText  string     `json:"finalRewardText"`
	FinalRewardImage string     `json:"finalRewardImage,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// EffectiveDifficulty returns the difficulty, defaulting to medium
func (g *Group) EffectiveDifficulty() Difficulty {
	if g.Difficulty == "" {
		return DifficultyMedium
	}
	return g.Difficulty
}

// Validate checks a group before it is stored
func (g *Group) Validate() error {
	if isBlank(g.CategoryID) {
		return &ValidationError{Field: "categoryId", Message: "category is required"}
	}
	if !g.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Message: "difficulty must be easy, medium or hard"}
	}
	if isBlank(g.FinalRewardText) {
		return &ValidationError{Field: "finalRewardText", Message: "final reward text is required"}
	}
	return nil
}

// GroupUpdate is a partial update. Nil fields are left unchanged; a pointer to an
// empty value clears an optional field.
type GroupUpdate struct {
	CategoryID       *string
	Name             *string
	Description      *string
	Difficulty       *Difficulty
	FinalRewardText  *string
	FinalRewardImage *string
}

// IsEmpty reports whether the update carries no fields
func (u GroupUpdate) IsEmpty() bool {
	return u.CategoryID == nil && u.Name == nil && u.Description == nil &&
		u.Difficulty == nil && u.FinalRewardText == nil && u.FinalRewardImage == nil
}

// Apply merges the supplied fields into g
func (u GroupUpdate) Apply(g *Group) {
	if u.CategoryID != nil {
		g.CategoryID = *u.CategoryID
	}
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Difficulty != nil {
		g.Difficulty = *u.Difficulty
	}
	if u.FinalRewardText != nil {
		g.FinalRewardText = *u.FinalRewardText
	}
	if u.FinalRewardImage != nil {
		g.FinalRewardImage = *u.FinalRewardImage
	}
}

// Validate checks the supplied fields
func (u GroupUpdate) Validate() error {
	if u.CategoryID != nil && isBlank(*u.CategoryID) {
		return &ValidationError{Field: "categoryId", Message: "category is required"}
	}
	if u.Difficulty != nil && !u.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Message: "difficulty must be easy, medium or hard"}
	}
	if u.FinalRewardText != nil && isBlank(*u.FinalRewardText) {
		return &ValidationError{Field: "finalRewardText", Message: "final reward text is required"}
	}
	return nil
}

// GroupWithWords joins a group with its words in play order
type GroupWithWords struct {
	Group
	Words []Word `json:"words"`
}
