package models

import "time"

// Project groups tasks under an owner, with optional contributors.
type Project struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageCover   string     `json:"image_cover,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	OwnerID      int64      `json:"owner_id"`
	Contributors []int64    `json:"contributors,omitempty"`
	Tasks        []Task     `json:"tasks,omitempty"` // populated on single-project reads
	CreatedAt    time.Time  `json:"created_at"`
}
