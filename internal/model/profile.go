package model

import "time"

// Profile holds per-user application data, one row per authenticated user.
// Credits are managed exclusively through the check-in award path; no
// handler writes the credits column directly.
//
// Fields:
//  UserID      – UUID of the owning user (primary key, references users.id).
//  DisplayName – public display name.
//  Credits     – non-negative in-app points balance.
//  Hobbies     – free-text hobby keywords, stored as a JSON array.
//  Age         – optional demographic field (nil when unset).
//  Gender      – optional demographic field (nil when unset).
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Profile struct {
	UserID      string    // profiles.user_id
	DisplayName string    // profiles.display_name
	Credits     uint32    // profiles.credits
	Hobbies     []string  // profiles.hobbies (JSON column)
	Age         *uint8    // profiles.age (nullable)
	Gender      *string   // profiles.gender (nullable)
	CreatedAt   time.Time // profiles.created_at
	UpdatedAt   time.Time // profiles.updated_at
}
