package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog is a persisted authentication or audit-relevant event.
type SecurityLog struct {
	gorm.Model
	EventType string `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	Username  string `json:"username" gorm:"column:username;type:varchar(191);index"`
	IP        string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	// Location is "City/Country" when the GeoIP lookup resolved both parts.
	Location  string         `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details"`
}

// AllModels lists every table owned by the application, in migration order.
var AllModels = []interface{}{
	&Patient{},
	&ReceptionUser{},
	&Session{},
	&SecurityLog{},
}

// Migrate creates or updates the schema for AllModels.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels...)
}
