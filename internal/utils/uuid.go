// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package utils

import "github.com/google/uuid"

// UUIDGenerator creates string UUID values for application identifiers
// (client installation IDs, new block and task IDs).
//
// The generator is stateless and safe to reuse across goroutines. Generate
// prefers UUID version 7 (time-ordered) and falls back to a random UUID if
// v7 generation fails.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a new [UUIDGenerator] instance.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUID string. It first attempts UUID v7 via
// [uuid.NewV7] and falls back to [uuid.NewString] so a valid value is
// always returned.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
