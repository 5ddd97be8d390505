package services

import (
	"context"
	"fmt"

	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/store"
)

// UserService manages identity-linked profile records. The record id equals
// the auth UID.
type UserService struct {
	docs store.DocumentStore
}

// NewUserService creates a new UserService
func NewUserService(docs store.DocumentStore) *UserService {
	return &UserService{docs: docs}
}

// Profile returns the user's profile, creating it with defaults on first
// authenticated access
func (s *UserService) Profile(ctx context.Context, uid, email, displayName string) (*models.UserProfile, error) {
	doc, err := s.docs.Get(ctx, CollectionUsers, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if doc != nil {
		profile := models.ProfileFromDocument(*doc)
		return &profile, nil
	}

	record := map[string]interface{}{
		"uid":         uid,
		"email":       email,
		"displayName": nilIfEmpty(displayName),
		"preferences": map[string]interface{}{
			"theme":         "light",
			"notifications": true,
		},
	}
	if err := s.docs.CreateWithID(ctx, CollectionUsers, uid, store.Sanitize(record)); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	doc, err = s.docs.Get(ctx, CollectionUsers, uid)
	if err != nil || doc == nil {
		return nil, fmt.Errorf("failed to load profile after creation: %w", err)
	}
	profile := models.ProfileFromDocument(*doc)
	return &profile, nil
}

// UpdateProfile applies profile edits
func (s *UserService) UpdateProfile(ctx context.Context, uid string, req models.UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["displayName"] = *req.DisplayName
	}
	if req.PhotoURL != nil {
		updates["photoUrl"] = *req.PhotoURL
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Theme != nil {
		updates["preferences.theme"] = *req.Theme
	}
	if req.Notifications != nil {
		updates["preferences.notifications"] = *req.Notifications
	}
	if len(updates) == 0 {
		return nil
	}
	return s.docs.Update(ctx, CollectionUsers, uid, updates)
}
