package model

// StatusChange is the body POSTed to every subscriber when a potty's status
// changes. Unlike the REST representation, the id is a JSON number.
type StatusChange struct {
	ID            int64    `json:"id"`
	OldStatus     Status   `json:"old_status"`
	CurrentStatus Status   `json:"current_status"`
	Location      Location `json:"location"`
}

// NewStatusChange builds the notification for a transition of p away from old.
func NewStatusChange(old Status, p *Potty) StatusChange {
	return StatusChange{
		ID:            p.ID,
		OldStatus:     old,
		CurrentStatus: p.Status,
		Location:      p.Location,
	}
}
