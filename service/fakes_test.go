package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockPatientStore overrides single calls; unset funcs panic so a test only
// passes when it touches exactly what it expects.
type mockPatientStore struct {
	FindByIDFunc      func(ctx context.Context, id uint64, view model.View) (model.Patient, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	FindAllFunc       func(ctx context.Context, view model.View) ([]model.Patient, error)
	SaveFunc          func(ctx context.Context, p *model.Patient) error
	DeleteByIDFunc    func(ctx context.Context, id uint64) error
}

func (m *mockPatientStore) FindByID(ctx context.Context, id uint64, view model.View) (model.Patient, error) {
	return m.FindByIDFunc(ctx, id, view)
}

func (m *mockPatientStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.ExistsByEmailFunc(ctx, email)
}

func (m *mockPatientStore) FindAll(ctx context.Context, view model.View) ([]model.Patient, error) {
	return m.FindAllFunc(ctx, view)
}

func (m *mockPatientStore) Save(ctx context.Context, p *model.Patient) error {
	return m.SaveFunc(ctx, p)
}

func (m *mockPatientStore) DeleteByID(ctx context.Context, id uint64) error {
	return m.DeleteByIDFunc(ctx, id)
}

// Transaction runs fn directly against the mock.
func (m *mockPatientStore) Transaction(ctx context.Context, fn func(tx PatientStore) error) error {
	return fn(m)
}

type stubHasher struct {
	err error
}

func (h stubHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h stubHasher) Verify(plain, stored string) (bool, error) {
	if h.err != nil {
		return false, h.err
	}
	return stored == "hashed:"+plain, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return db
}

func newPatientService(t *testing.T) (*PatientService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewPatientService(StoreFromRepository(repository.NewPatientRepository(db))), db
}

func johnDoe() PatientInput {
	return PatientInput{
		FirstName: "John",
		LastName:  "Doe",
		Passport:  "12345",
		BirthDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:     "johndoe@example.com",
	}
}

func strPtr(s string) *string { return &s }
