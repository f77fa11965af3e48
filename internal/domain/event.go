// SPDX-License-Identifier: Apache-2.0

package domain

import "time"

// Event is a meetup event. Detail views hold the latest version and swap it
// out whenever an updated copy arrives on the broadcast bus.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
