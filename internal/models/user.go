package models

import (
	"time"

	"github.com/mindcanvas/backend/internal/store"
)

// Preferences holds per-user preference flags
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// UserProfile is the identity-linked preferences record, keyed by the user's
// auth UID. Created lazily on first authenticated access; never hard-deleted.
type UserProfile struct {
	ID          string      `json:"id"`
	UID         string      `json:"uid"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ProfileFromDocument decodes a raw store document into a UserProfile
func ProfileFromDocument(doc store.Document) UserProfile {
	d := doc.Data
	profile := UserProfile{
		ID:          doc.ID,
		UID:         docString(d, "uid"),
		Email:       docString(d, "email"),
		DisplayName: docString(d, "displayName"),
		PhotoURL:    docString(d, "photoUrl"),
		Bio:         docString(d, "bio"),
		Preferences: Preferences{Theme: "light", Notifications: true},
		CreatedAt:   docTime(d, "createdAt"),
		UpdatedAt:   docTime(d, "updatedAt"),
	}
	if prefs := docMap(d, "preferences"); prefs != nil {
		if theme, ok := prefs["theme"].(string); ok && theme != "" {
			profile.Preferences.Theme = theme
		}
		if notif, ok := prefs["notifications"].(bool); ok {
			profile.Preferences.Notifications = notif
		}
	}
	return profile
}

// UpdateProfileRequest defines the request body for profile edits
type UpdateProfileRequest struct {
	DisplayName   *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=80"`
	PhotoURL      *string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Bio           *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Theme         *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	Notifications *bool   `json:"notifications,omitempty"`
}
