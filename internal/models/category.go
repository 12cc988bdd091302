package models

import "time"

// Category is the top-level grouping of learning content
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryUpdate is a partial update. Nil fields are left unchanged; a pointer to
// an empty string clears an optional field.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Icon        *string
}

// IsEmpty reports whether the update carries no fields
func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Icon == nil
}

// Apply merges the supplied fields into c
func (u CategoryUpdate) Apply(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Icon != nil {
		c.Icon = *u.Icon
	}
}

// Validate checks the fields a caller is allowed to touch
func (u CategoryUpdate) Validate() error {
	if u.Name != nil && isBlank(*u.Name) {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// Validate checks a category before it is stored
func (c *Category) Validate() error {
	if isBlank(c.Name) {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// CategoryWithGroups joins a category with the groups that reference it
type CategoryWithGroups struct {
	Category
	Groups []Group `json:"groups"`
}

// JoinCategories attaches each group to its category, keeping both orders. Every
// category gets a non-nil Groups slice.
func JoinCategories(categories []Category, groups []Group) []CategoryWithGroups {
	byCategory := make(map[string][]Group)
	for _, g := range groups {
		byCategory[g.CategoryID] = append(byCategory[g.CategoryID], g)
	}
	out := make([]CategoryWithGroups, 0, len(categories))
	for _, c := range categories {
		children := byCategory[c.ID]
		if children == nil {
			children = []Group{}
		}
		out = append(out, CategoryWithGroups{Category: c, Groups: children})
	}
	return out
}
