package model

// PottyFilter holds criteria for querying potties.
type PottyFilter struct {
	Status Status `json:"status,omitempty"` // empty = no filter
}
