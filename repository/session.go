package repository

import (
	"context"
	"time"

	"github.com/nadvoretskiy13/attestation03/model"
	"gorm.io/gorm"
)

// SessionRepository keeps web login sessions in the sessions table.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindValid returns the session for token if it has not expired at now.
func (r *SessionRepository) FindValid(ctx context.Context, token string, now time.Time) (model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Where("session_token = ?", token).Take(&s).Error
	if err != nil {
		return model.Session{}, translate(err)
	}
	if s.Expired(now) {
		return model.Session{}, ErrNotFound
	}
	return s, nil
}

// DeleteByToken removes the session permanently. Unknown tokens are ignored.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Unscoped().Where("session_token = ?", token).Delete(&model.Session{}).Error
}

// DeleteByUsername removes every session of username and reports how many there were.
func (r *SessionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("username = ?", username).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
