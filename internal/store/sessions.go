package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/utils"
)

const pinAttempts = 5

// CreateSession assigns a fresh random PIN and inserts s, retrying on PIN collisions.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	var lastErr error
	for i := 0; i < pinAttempts; i++ {
		pin, err := utils.GeneratePIN()
		if err != nil {
			return fmt.Errorf("generate pin: %w", err)
		}
		sess.ID = 0
		sess.Pin = pin
		err = s.conn(ctx).Create(sess).Error
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("create session: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("create session: no free pin after %d attempts: %w", pinAttempts, lastErr)
}

// FindSessionByPin returns nil, nil when no session has the PIN.
func (s *Store) FindSessionByPin(ctx context.Context, pin string) (*models.Session, error) {
	var sess models.Session
	err := s.conn(ctx).Where("pin = ?", pin).Take(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session by pin: %w", err)
	}
	return &sess, nil
}

func (s *Store) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	var sess models.Session
	if err := s.conn(ctx).First(&sess, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

// ListSessions returns sessions newest first. ownerID 0 lists every owner.
func (s *Store) ListSessions(ctx context.Context, ownerID uint) ([]models.Session, error) {
	q := s.conn(ctx).Order("created_at DESC").Order("id DESC")
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	var out []models.Session
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// UpdateSession writes only the named columns so the attendance counter is
// never overwritten by a stale copy.
func (s *Store) UpdateSession(ctx context.Context, sess *models.Session, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	res := s.conn(ctx).Model(sess).Select(columns).Updates(sess)
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementAttendanceCount bumps the counter in SQL so concurrent writers do not lose updates.
func (s *Store) IncrementAttendanceCount(ctx context.Context, sessionID uint) error {
	res := s.conn(ctx).Model(&models.Session{}).Where("id = ?", sessionID).
		UpdateColumn("attendance_count", gorm.Expr("attendance_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment attendance count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes the session and its attendance records together.
func (s *Store) DeleteSession(ctx context.Context, id uint) error {
	return s.WithTx(ctx, func(tx *Store) error {
		if err := tx.db.Where("session_id = ?", id).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		res := tx.db.Delete(&models.Session{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CloseExpiredSessions closes open sessions whose closes_at is not after now.
func (s *Store) CloseExpiredSessions(ctx context.Context, now time.Time) ([]models.Session, error) {
	var closed []models.Session
	err := s.WithTx(ctx, func(tx *Store) error {
		if err := tx.db.Where("is_open = ? AND closes_at IS NOT NULL AND closes_at <= ?", true, now).
			Find(&closed).Error; err != nil {
			return err
		}
		if len(closed) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(closed))
		for i := range closed {
			ids = append(ids, closed[i].ID)
			closed[i].IsOpen = false
		}
		return tx.db.Model(&models.Session{}).Where("id IN ?", ids).Update("is_open", false).Error
	})
	if err != nil {
		return nil, fmt.Errorf("close expired sessions: %w", err)
	}
	return closed, nil
}

type Stats struct {
	TotalSessions   int64 `json:"total_sessions"`
	ActiveSessions  int64 `json:"active_sessions"`
	TotalAttendance int64 `json:"total_attendance"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.conn(ctx)
	if err := db.Model(&models.Session{}).Count(&st.TotalSessions).Error; err != nil {
		return st, fmt.Errorf("count sessions: %w", err)
	}
	if err := db.Model(&models.Session{}).Where("is_open = ?", true).Count(&st.ActiveSessions).Error; err != nil {
		return st, fmt.Errorf("count open sessions: %w", err)
	}
	if err := db.Model(&models.AttendanceRecord{}).Count(&st.TotalAttendance).Error; err != nil {
		return st, fmt.Errorf("count attendance: %w", err)
	}
	return st, nil
}
