package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckInAttempt is an audit row written for every admission decision.
type CheckInAttempt struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SessionID  *uint          `gorm:"index" json:"session_id,omitempty"`
	SessionPin string         `gorm:"size:64;index" json:"session_pin"`
	StudentID  string         `json:"student_id"`
	Verdict    string         `gorm:"size:32;index" json:"verdict"`
	Distance   *float64       `json:"distance,omitempty"`
	Payload    datatypes.JSON `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}
