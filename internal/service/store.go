package service

import (
	"context"

	"readinggame/internal/localstore"
	"readinggame/internal/models"
	"readinggame/internal/repository"
)

// GameStore is the operation set shared by the local and remote stores
type GameStore interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	AddCategory(ctx context.Context, category models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, update models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	GetGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	GetGroupsByCategory(ctx context.Context, categoryID string) ([]models.Group, error)
	AddGroup(ctx context.Context, group models.Group) (*models.Group, error)
	UpdateGroup(ctx context.Context, id string, update models.GroupUpdate) (*models.Group, error)
	DeleteGroup(ctx context.Context, id string) error

	GetWords(ctx context.Context) ([]models.Word, error)
	GetWord(ctx context.Context, id string) (*models.Word, error)
	GetWordsByGroup(ctx context.Context, groupID string) ([]models.Word, error)
	AddWord(ctx context.Context, word models.Word) (*models.Word, error)
	UpdateWord(ctx context.Context, id string, update models.WordUpdate) (*models.Word, error)
	DeleteWord(ctx context.Context, id string) error

	GetCategoriesWithGroups(ctx context.Context) ([]models.CategoryWithGroups, error)
	GetGroupWithWords(ctx context.Context, id string) (*models.GroupWithWords, error)
}

var (
	_ GameStore = (*localstore.Store)(nil)
	_ GameStore = (*repository.GameRepository)(nil)
)
