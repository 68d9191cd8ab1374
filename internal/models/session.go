package models

import (
	"encoding/json"
	"time"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/geo"
)

// Session is a teacher-created attendance window identified by a PIN.
type Session struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Pin               string     `gorm:"size:6;uniqueIndex" json:"pin"`
	OwnerID           uint       `gorm:"index" json:"teacher_id"`
	Name              string     `json:"session_name"`
	LocationLatitude  *float64   `json:"-"`
	LocationLongitude *float64   `json:"-"`
	IsOpen            bool       `gorm:"index" json:"is_open"`
	AttendanceCount   int        `gorm:"not null;default:0" json:"attendance_count"`
	ClosesAt          *time.Time `gorm:"index" json:"closes_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Location returns the session anchor, or nil when none was recorded.
func (s Session) Location() *geo.Coordinate {
	return coordinate(s.LocationLatitude, s.LocationLongitude)
}

// SetLocation stores c as the anchor; nil clears it.
func (s *Session) SetLocation(c *geo.Coordinate) {
	s.LocationLatitude, s.LocationLongitude = columns(c)
}

// Snapshot is the admission view of the session.
func (s Session) Snapshot() *admission.Session {
	return &admission.Session{ID: s.ID, IsOpen: s.IsOpen, Anchor: s.Location()}
}

func coordinate(lat, lng *float64) *geo.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *lat, Longitude: *lng}
}

func columns(c *geo.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Latitude, c.Longitude
	return &lat, &lng
}

func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	return json.Marshal(struct {
		plain
		Location *geo.Coordinate `json:"location"`
	}{plain(s), s.Location()})
}
