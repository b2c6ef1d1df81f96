package model

import "time"

// DateLayout is the wire and form format of a patient's birth date.
const DateLayout = "2006-01-02"

// Patient is a clinic patient record. Rows are never removed: deleting a
// patient flips Deleted, so the email stays reserved.
type Patient struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"column:first_name;type:varchar(255);not null" json:"firstName"`
	LastName  string    `gorm:"column:last_name;type:varchar(255);not null" json:"lastName"`
	Passport  string    `gorm:"column:passport;type:varchar(255);not null" json:"passport"`
	Phone     string    `gorm:"column:phone;type:varchar(64)" json:"phone"`
	BirthDate time.Time `gorm:"column:birth_date;type:date;not null" json:"birthDate"`
	Email     string    `gorm:"column:email;type:varchar(191);not null;uniqueIndex" json:"email"`
	Deleted   bool      `gorm:"column:deleted;not null;default:false;index" json:"deleted"`
}

// TableName pins the table name used by the schema.
func (Patient) TableName() string {
	return "patients"
}

// MarkDeleted is the only transition of the patient lifecycle: Active -> Deleted.
// Applying it to an already deleted record returns it unchanged.
func MarkDeleted(p Patient) Patient {
	p.Deleted = true
	return p
}

// IsActive reports whether the record is visible in the active view.
func (p Patient) IsActive() bool {
	return !p.Deleted
}
