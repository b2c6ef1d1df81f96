package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is a web login session backing the session cookie.
type Session struct {
	gorm.Model
	SessionToken string    `gorm:"column:session_token;type:varchar(512);not null;uniqueIndex" json:"session_token"`
	Username     string    `gorm:"column:username;type:varchar(191);not null;index" json:"username"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	ClientIP     string    `gorm:"column:client_ip;type:varchar(45)" json:"client_ip"`
	Browser      string    `gorm:"column:browser;type:varchar(512)" json:"browser"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
