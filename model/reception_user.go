package model

// ReceptionUser is a staff login account. Password holds only the encoded
// one-way hash produced by the configured hasher.
type ReceptionUser struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"column:username;type:varchar(191);not null;uniqueIndex" json:"username"`
	Password string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
}

func (ReceptionUser) TableName() string {
	return "users"
}
