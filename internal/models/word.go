package models

import "sort"

// ContentType distinguishes reading words from math items
type ContentType string

const (
	ContentTypeWord ContentType = "word"
	ContentTypeMath ContentType = "math"
)

// MathOperator is the operator shown in a math item
type MathOperator string

const (
	OperatorAdd      MathOperator = "+"
	OperatorSubtract MathOperator = "-"
	OperatorMultiply MathOperator = "×"
	OperatorDivide   MathOperator = "÷"
)

// Valid reports whether op is a known operator or empty
func (op MathOperator) Valid() bool {
	switch op {
	case "", OperatorAdd, OperatorSubtract, OperatorMultiply, OperatorDivide:
		return true
	}
	return false
}

// Word is one playable item within a group
type Word struct {
	ID           string       `json:"id"`
	GroupID      string       `json:"groupId"`
	Text         string       `json:"text"`
	ImageSrc     string       `json:"imageSrc"`
	Order        int          `json:"order"`
	ContentType  ContentType  `json:"contentType,omitempty"`
	MathQuestion string       `json:"mathQuestion,omitempty"`
	MathAnswer   string       `json:"mathAnswer,omitempty"`
	MathOperator MathOperator `json:"mathOperator,omitempty"`
}

// EffectiveContentType returns the content type, defaulting to word
func (w *Word) EffectiveContentType() ContentType {
	if w.ContentType == "" {
		return ContentTypeWord
	}
	return w.ContentType
}

// IsMath reports whether the word is a math item
func (w *Word) IsMath() bool {
	return w.EffectiveContentType() == ContentTypeMath
}

// Validate checks a word before it is stored
func (w *Word) Validate() error {
	if isBlank(w.GroupID) {
		return &ValidationError{Field: "groupId", Message: "group is required"}
	}
	if isBlank(w.ImageSrc) {
		return &ValidationError{Field: "imageSrc", Message: "image is required"}
	}
	switch w.ContentType {
	case "", ContentTypeWord, ContentTypeMath:
	default:
		return &ValidationError{Field: "contentType", Message: "content type must be word or math"}
	}
	if !w.MathOperator.Valid() {
		return &ValidationError{Field: "mathOperator", Message: "operator must be one of + - × ÷"}
	}
	if w.IsMath() {
		if isBlank(w.MathQuestion) {
			return &ValidationError{Field: "mathQuestion", Message: "math question is required"}
		}
		if isBlank(w.MathAnswer) {
			return &ValidationError{Field: "mathAnswer", Message: "math answer is required"}
		}
		if w.MathOperator == "" {
			return &ValidationError{Field: "mathOperator", Message: "math operator is required"}
		}
	}
	return nil
}

// WordUpdate is a partial update. Nil fields are left unchanged; a pointer to an
// empty value clears an optional field.
type WordUpdate struct {
	GroupID      *string
	Text         *string
	ImageSrc     *string
	Order        *int
	ContentType  *ContentType
	MathQuestion *string
	MathAnswer   *string
	MathOperator *MathOperator
}

// IsEmpty reports whether the update carries no fields
func (u WordUpdate) IsEmpty() bool {
	return u.GroupID == nil && u.Text == nil && u.ImageSrc == nil && u.Order == nil &&
		u.ContentType == nil && u.MathQuestion == nil && u.MathAnswer == nil && u.MathOperator == nil
}

// Apply merges the supplied fields into w
func (u WordUpdate) Apply(w *Word) {
	if u.GroupID != nil {
		w.GroupID = *u.GroupID
	}
	if u.Text != nil {
		w.Text = *u.Text
	}
	if u.ImageSrc != nil {
		w.ImageSrc = *u.ImageSrc
	}
	if u.Order != nil {
		w.Order = *u.Order
	}
	if u.ContentType != nil {
		w.ContentType = *u.ContentType
	}
	if u.MathQuestion != nil {
		w.MathQuestion = *u.MathQuestion
	}
	if u.MathAnswer != nil {
		w.MathAnswer = *u.MathAnswer
	}
	if u.MathOperator != nil {
		w.MathOperator = *u.MathOperator
	}
}

// Validate checks the supplied fields
func (u WordUpdate) Validate() error {
	if u.GroupID != nil && isBlank(*u.GroupID) {
		return &ValidationError{Field: "groupId", Message: "group is required"}
	}
	if u.ImageSrc != nil && isBlank(*u.ImageSrc) {
		return &ValidationError{Field: "imageSrc", Message: "image is required"}
	}
	if u.ContentType != nil {
		switch *u.ContentType {
		case "", ContentTypeWord, ContentTypeMath:
		default:
			return &ValidationError{Field: "contentType", Message: "content type must be word or math"}
		}
	}
	if u.MathOperator != nil && !u.MathOperator.Valid() {
		return &ValidationError{Field: "mathOperator", Message: "operator must be one of + - × ÷"}
	}
	return nil
}

// SortWordsByOrder sorts words ascending by Order, keeping the existing order of ties
func SortWordsByOrder(words []Word) {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Order < words[j].Order
	})
}
