package model

import "fmt"

// Status is the occupancy state of a potty.
type Status string

const (
	StatusOccupied Status = "OCCUPIED"
	StatusVacant   Status = "VACANT"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOccupied, StatusVacant:
		return true
	}
	return false
}

// ParseStatus converts a raw value into a Status. Names are case-sensitive.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status %q", v)
	}
	return s, nil
}

// Location is the site a potty is installed at.
type Location string

const (
	LocationNorth Location = "NORTH"
	LocationSouth Location = "SOUTH"
	LocationEast  Location = "EAST"
	LocationWest  Location = "WEST"
)

// String returns the string representation of the location.
func (l Location) String() string {
	return string(l)
}

// IsValid checks whether the location is a known value.
func (l Location) IsValid() bool {
	switch l {
	case LocationNorth, LocationSouth, LocationEast, LocationWest:
		return true
	}
	return false
}

// ParseLocation converts a raw value into a Location. Names are case-sensitive.
func ParseLocation(v string) (Location, error) {
	l := Location(v)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid location %q", v)
	}
	return l, nil
}

// Potty is a tracked facility. The id is serialized as a JSON string.
type Potty struct {
	ID       int64    `json:"id,string"`
	Status   Status   `json:"status"`
	Location Location `json:"location"`
}
