package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// SessionCreateOpts groups parameters for creating a test session.
type SessionCreateOpts struct {
	Username string
	Token    string
	Expires  time.Time
	ClientIP string
	Browser  string
}

func mustCreateSession(db *gorm.DB, t *testing.T, opts SessionCreateOpts) Session {
	t.Helper()
	s := Session{
		Username:     opts.Username,
		SessionToken: opts.Token,
		ExpiresAt:    opts.Expires,
		ClientIP:     opts.ClientIP,
		Browser:      opts.Browser,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

func TestSessionModel_Create(t *testing.T) {
	db := setupTestDB(t, "session", &Session{})

	s := mustCreateSession(db, t, SessionCreateOpts{Username: "reception", Token: "token123", Expires: time.Now().Add(time.Hour)})
	assert.NotZero(t, s.ID)
}

func TestSessionModel_UniqueToken(t *testing.T) {
	db := setupTestDB(t, "session", &Session{})

	mustCreateSession(db, t, SessionCreateOpts{Username: "a", Token: "dup", Expires: time.Now().Add(time.Hour)})
	err := db.Create(&Session{Username: "b", SessionToken: "dup", ExpiresAt: time.Now().Add(time.Hour)}).Error
	assert.Error(t, err)
}

func TestSessionModel_FindByUsername(t *testing.T) {
	db := setupTestDB(t, "session", &Session{})

	for i := 0; i < 3; i++ {
		mustCreateSession(db, t, SessionCreateOpts{
			Username: "reception",
			Token:    fmt.Sprintf("token-%d", i),
			Expires:  time.Now().Add(time.Hour),
		})
	}

	var sessions []Session
	err := db.Where("username = ?", "reception").Find(&sessions).Error
	assert.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}
