package store

import (
	"context"
	"fmt"
	"time"

	"github.com/zaqqye/attendance_backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.conn(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("username = ?", username).Take(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.conn(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID uint, hashed string) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hashed)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if err := s.conn(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *Store) RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := s.conn(ctx).Where("token_hash = ?", hash).Take(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// RevokeRefreshToken marks the token revoked, recording its replacement when rotating.
func (s *Store) RevokeRefreshToken(ctx context.Context, id uint, now time.Time, replacedBy *string) error {
	updates := map[string]interface{}{"revoked_at": &now}
	if replacedBy != nil {
		updates["replaced_by_token_id"] = *replacedBy
	}
	if err := s.conn(ctx).Model(&models.RefreshToken{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID uint, now time.Time) error {
	err := s.conn(ctx).Model(&models.RefreshToken{}).
		Where("user_id_ref = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
