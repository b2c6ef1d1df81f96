package util

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/nadvoretskiy13/attestation03/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventSignupSuccess      SecurityEventType = "SIGNUP_SUCCESS"
	EventSignupFailure      SecurityEventType = "SIGNUP_FAILURE"
	EventLogout             SecurityEventType = "LOGOUT"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventPatientDeleted     SecurityEventType = "PATIENT_DELETED"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	Username  string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var (
	securityDB   *gorm.DB
	securityDBMu sync.RWMutex
)

// SetSecurityLoggerDB sets the gorm DB the security log is persisted to.
// Pass nil to only write events to the application logger.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDBMu.Lock()
	defer securityDBMu.Unlock()
	securityDB = db
}

func getSecurityDB() *gorm.DB {
	securityDBMu.RLock()
	defer securityDBMu.RUnlock()
	return securityDB
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(value)
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent writes the event to the "security" logger and, when a DB
// is configured, persists it to security_logs. Persistence is best-effort.
func LogSecurityEvent(event SecurityEvent) {
	loc := GetIPLocation(event.IP)
	entry := model.SecurityLog{
		EventType: string(event.EventType),
		Username:  sanitizeLogValue(event.Username),
		IP:        sanitizeLogValue(event.IP),
		Location:  sanitizeLogValue(loc.String()),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
	}

	logger := zap.L().Named("security")
	logger.Info(entry.Message,
		zap.String("event", entry.EventType),
		zap.String("username", entry.Username),
		zap.String("ip", entry.IP),
		zap.String("location", entry.Location),
		zap.String("user_agent", entry.UserAgent),
		zap.Int("details_count", len(event.Details)),
	)

	db := getSecurityDB()
	if db == nil {
		return
	}
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Warn("failed to persist security event", zap.Error(err))
	}
}

func LogLoginSuccess(username, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

func LogLoginFailure(username, ip, userAgent, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Login failed: " + reason,
	})
}

func LogSignup(username, ip, userAgent string, err error) {
	event := SecurityEvent{
		EventType: EventSignupSuccess,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User registered",
	}
	if err != nil {
		event.EventType = EventSignupFailure
		event.Message = "Registration failed: " + err.Error()
	}
	LogSecurityEvent(event)
}

func LogLogout(username, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogUnauthorizedAccess logs unauthorized access attempts
func LogUnauthorizedAccess(username, ip, resource, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		Username:  username,
		IP:        ip,
		Message:   "Unauthorized access to " + resource + ": " + reason,
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   "Rate limit exceeded for endpoint: " + endpoint,
	})
}

// LogPatientDeleted records who soft-deleted which patient.
func LogPatientDeleted(username, ip string, patientID uint64) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventPatientDeleted,
		Username:  username,
		IP:        ip,
		Message:   "Patient moved to deleted",
		Details:   map[string]interface{}{"patient_id": patientID},
	})
}
