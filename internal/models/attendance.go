package models

import (
	"encoding/json"
	"time"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/geo"
)

// AttendanceRecord is created once per accepted check-in. Only the location
// may change afterwards, through an explicit edit.
type AttendanceRecord struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	SessionID         uint       `gorm:"index" json:"session_id"`
	SessionPin        string     `gorm:"size:6" json:"session_pin"`
	StudentName       string     `json:"student_name"`
	StudentID         string     `gorm:"index" json:"student_id"`
	LocationLatitude  *float64   `json:"-"`
	LocationLongitude *float64   `json:"-"`
	Timestamp         time.Time  `json:"timestamp"`
	LocationEdited    bool       `json:"location_edited"`
	EditedAt          *time.Time `json:"edited_at,omitempty"`
}

func (a AttendanceRecord) Location() *geo.Coordinate {
	return coordinate(a.LocationLatitude, a.LocationLongitude)
}

func (a *AttendanceRecord) SetLocation(c *geo.Coordinate) {
	a.LocationLatitude, a.LocationLongitude = columns(c)
}

// AdmissionRecords reduces stored records to the fields the duplicate rule compares.
func AdmissionRecords(records []AttendanceRecord) []admission.Record {
	out := make([]admission.Record, 0, len(records))
	for _, r := range records {
		out = append(out, admission.Record{StudentID: r.StudentID, StudentName: r.StudentName})
	}
	return out
}

// MarshalJSON exposes the location columns as a nested object.
func (a AttendanceRecord) MarshalJSON() ([]byte, error) {
	type plain AttendanceRecord
	return json.Marshal(struct {
		plain
		Location *geo.Coordinate `json:"location"`
	}{plain(a), a.Location()})
}
