// SPDX-License-Identifier: Apache-2.0

package domain

import "time"

// Profile is a member profile persisted verbatim by the profile store.
// The ID is nil until the store assigns one on first save; create requests
// carrying an ID are rejected with ErrIDExists.
type Profile struct {
	ID        *int64    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
