package models

import "time"

// Report is the write-up for an event. One report corresponds to one rendered
// PDF artifact, keyed by the event name and the event's earliest start day.
type Report struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Image is an uploaded photo belonging to exactly one report. The blob lives
// on disk at FilePath; creating an image re-renders the parent report's PDF.
type Image struct {
	ID           string    `json:"id"`
	ReportID     string    `json:"report_id"`
	FilePath     string    `json:"-"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ArtifactKey is the pair of business fields a report's canonical PDF path
// is derived from.
type ArtifactKey struct {
	EventName string
	Start     time.Time
}

// ReportBundle is everything the document renderer needs for one report:
// the report itself, its owning event with ordered dates, and its images.
type ReportBundle struct {
	Report Report
	Event  Event
	Images []Image
}
