package models

import "time"

// Event is the central domain entity. It owns zero-or-more Dates (occurrence
// windows) and zero-or-more Reports; deleting an event cascades to both.
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatorID    *string   `json:"creator_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	Dates        []Dates   `json:"dates,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Dates represents one occurrence window of an Event.
type Dates struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Department categorizes events for reporting.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   *string   `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
