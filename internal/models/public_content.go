package models

// PublicWord is a word embedded in the public content snapshot
type PublicWord struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageSrc string `json:"imageSrc"`
	Order    int    `json:"order"`
}

// PublicContent is the denormalized read-only snapshot used for unauthenticated preview
type PublicContent struct {
	ID               string       `json:"id"`
	CategoryName     string       `json:"categoryName"`
	GroupName        string       `json:"groupName"`
	GroupDescription string       `json:"groupDescription,omitempty"`
	FinalRewardText  string       `json:"finalRewardText"`
	FinalRewardImage string       `json:"finalRewardImage,omitempty"`
	Words            []PublicWord `json:"words"`
	IsActive         bool         `json:"isActive"`
}

// NewPublicContent snapshots a group, its ordered words and its category name as
// an active preview
func NewPublicContent(category Category, group GroupWithWords) PublicContent {
	content := PublicContent{
		ID:               group.ID,
		CategoryName:     category.Name,
		GroupName:        group.Name,
		GroupDescription: group.Description,
		FinalRewardText:  group.FinalRewardText,
		FinalRewardImage: group.FinalRewardImage,
		Words:            make([]PublicWord, 0, len(group.Words)),
		IsActive:         true,
	}
	for _, w := range group.Words {
		content.Words = append(content.Words, PublicWord{ID: w.ID, Text: w.Text, ImageSrc: w.ImageSrc, Order: w.Order})
	}
	return content
}
