package service

import (
	"context"
	"fmt"

	"readinggame/internal/identity"
	"readinggame/internal/logger"
	"readinggame/internal/models"
	"readinggame/internal/repository"
)

// PublishService makes one group the preview shown before sign-in. Only accounts
// whose email is on the admin list may publish.
type PublishService struct {
	content *repository.PublicContentRepository
	users   *repository.UserRepository
	admins  map[string]struct{}
	log     *logger.Logger
}

// NewPublishService creates a new publish service. An empty admin list disables
// publishing.
func NewPublishService(content *repository.PublicContentRepository, users *repository.UserRepository, adminEmails []string, log *logger.Logger) *PublishService {
	if log == nil {
		log = logger.NewNop()
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = identity.NormalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &PublishService{
		content: content,
		users:   users,
		admins:  admins,
		log:     log.With("component", "publish"),
	}
}

// Publish snapshots groupID from src, which must be the signed-in admin's own
// store, and makes it the only active public content
func (s *PublishService) Publish(ctx context.Context, src GameStore, groupID string) (*models.PublicContent, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	gw, err := src.GetGroupWithWords(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrParentNotFound)
	}
	category, err := src.GetCategory(ctx, gw.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", gw.CategoryID, models.ErrParentNotFound)
	}

	content := models.NewPublicContent(*category, *gw)
	if err := s.content.Save(ctx, content); err != nil {
		return nil, err
	}
	s.log.Info("Group published", "group_id", groupID, "words", len(content.Words))
	return &content, nil
}

func (s *PublishService) requireAdmin(ctx context.Context) error {
	userID, err := identity.RequireUserID(ctx)
	if err != nil {
		return err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return identity.ErrForbidden
	}
	if _, ok := s.admins[identity.NormalizeEmail(user.Email)]; !ok {
		s.log.Warn("Publish refused", "user_id", userID)
		return identity.ErrForbidden
	}
	return nil
}
