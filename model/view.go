package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// View selects which patients a read sees. There is no default view: every
// patient query must name one.
type View int

const (
	ViewActive View = iota + 1
	ViewDeleted
)

func (v View) String() string {
	switch v {
	case ViewActive:
		return "active"
	case ViewDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Valid reports whether v is one of the declared views.
func (v View) Valid() bool {
	return v == ViewActive || v == ViewDeleted
}

// Scope restricts a patient query to the view. Use with db.Scopes(view.Scope).
func (v View) Scope(db *gorm.DB) *gorm.DB {
	if !v.Valid() {
		_ = db.AddError(fmt.Errorf("invalid patient view %d", int(v)))
		return db
	}
	return db.Where("patients.deleted = ?", v == ViewDeleted)
}

// ParseView maps a query value to a view. The empty string means active.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return ViewActive, nil
	case "deleted":
		return ViewDeleted, nil
	default:
		return 0, fmt.Errorf("unknown view %q", s)
	}
}
