package models

import "time"

// RefreshToken stores the hash of an issued refresh JWT so it can be rotated and revoked.
type RefreshToken struct {
	ID                uint      `gorm:"primaryKey"`
	TokenID           string    `gorm:"size:36;index"` // jti
	UserIDRef         uint      `gorm:"index"`
	TokenHash         string    `gorm:"size:64;uniqueIndex"`
	ExpiresAt         time.Time `gorm:"index"`
	RevokedAt         *time.Time
	ReplacedByTokenID *string
	CreatedAt         time.Time
}

func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
