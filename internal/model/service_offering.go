package model

import "time"

const DefaultServiceCategory = "General"

type ServiceOffering struct {
	ID          string    `json:"id"`
	Icon        string    `json:"icon"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ServiceOfferingPatch holds the fields of a partial update; nil fields keep their stored value.
type ServiceOfferingPatch struct {
	Icon        *string `json:"icon"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

func (p ServiceOfferingPatch) IsEmpty() bool {
	return p.Icon == nil && p.Title == nil && p.Description == nil && p.Category == nil
}
