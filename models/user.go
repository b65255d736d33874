// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package models

import "time"

// User represents an account upserted from the external identity provider.
// Identity verification itself happens outside the sync core; by the time a
// User exists the provider identity has already been checked.
type User struct {
	// UserID is the internal unique identifier. Used at the persistence
	// layer and inside bearer tokens; never exposed via JSON.
	UserID int64 `json:"-"`

	// ProviderID is the canonical identity from the OAuth verifier.
	// Accounts are upserted by this key.
	ProviderID string `json:"providerId"`

	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity is the canonical identity returned by the external OAuth
// verifier for a valid ID token.
type Identity struct {
	ProviderID string `json:"providerId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
}

// GoogleSignInRequest is the payload of POST /auth/google.
type GoogleSignInRequest struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// InternalSignInRequest is the payload of POST /auth/internal: a verified
// identity asserted by a trusted deployment-internal caller.
type InternalSignInRequest struct {
	Identity
	// AuthKey is the shared internal credential gating this path.
	AuthKey string `json:"authKey"`
}

// SignInResponse returns the bearer token and the user it belongs to.
type SignInResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
