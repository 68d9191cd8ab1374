package store

import (
	"context"
	"fmt"
	"time"

	"github.com/zaqqye/attendance_backend/internal/geo"
	"github.com/zaqqye/attendance_backend/internal/models"
)

// ListAttendance returns the records of a session in check-in order.
func (s *Store) ListAttendance(ctx context.Context, sessionID uint) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	if err := s.conn(ctx).Where("session_id = ?", sessionID).Order("timestamp ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return out, nil
}

func (s *Store) AppendAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	if err := s.conn(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append attendance: %w", err)
	}
	return nil
}

func (s *Store) GetAttendance(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := s.conn(ctx).First(&rec, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// EditAttendanceLocation replaces the stored location and flags the record as edited.
func (s *Store) EditAttendanceLocation(ctx context.Context, id uint, loc *geo.Coordinate, now time.Time) (*models.AttendanceRecord, error) {
	rec, err := s.GetAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.SetLocation(loc)
	rec.LocationEdited = true
	rec.EditedAt = &now
	if err := s.conn(ctx).Save(rec).Error; err != nil {
		return nil, fmt.Errorf("edit attendance location: %w", err)
	}
	return rec, nil
}

func (s *Store) RecordAttempt(ctx context.Context, attempt *models.CheckInAttempt) error {
	if err := s.conn(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("record check-in attempt: %w", err)
	}
	return nil
}

// ListAttempts returns the most recent audit rows for a pin, newest first.
func (s *Store) ListAttempts(ctx context.Context, pin string, limit int) ([]models.CheckInAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.CheckInAttempt
	if err := s.conn(ctx).Where("session_pin = ?", pin).Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list check-in attempts: %w", err)
	}
	return out, nil
}
