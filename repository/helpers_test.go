package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repo_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newPatient(email string) model.Patient {
	return model.Patient{
		FirstName: "John",
		LastName:  "Doe",
		Passport:  "12345",
		BirthDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:     email,
	}
}

func savePatient(t *testing.T, r *PatientRepository, email string) model.Patient {
	t.Helper()
	p := newPatient(email)
	require.NoError(t, r.Save(context.Background(), &p))
	require.NotZero(t, p.ID)
	return p
}
