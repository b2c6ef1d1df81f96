package repository

import (
	"context"
	"errors"

	"github.com/nadvoretskiy13/attestation03/model"
	"gorm.io/gorm"
)

// PatientRepository stores patients. Every read names the view it runs in.
type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) FindByID(ctx context.Context, id uint64, view model.View) (model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).Scopes(view.Scope).Where("id = ?", id).Take(&p).Error
	return p, translate(err)
}

func (r *PatientRepository) FindByEmail(ctx context.Context, email string, view model.View) (model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).Scopes(view.Scope).Where("email = ?", email).Take(&p).Error
	return p, translate(err)
}

// ExistsByEmail checks every row, deleted or not, matching the unique index.
func (r *PatientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Patient{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// FindAll returns the patients of the view ordered by id.
func (r *PatientRepository) FindAll(ctx context.Context, view model.View) ([]model.Patient, error) {
	patients := []model.Patient{}
	err := r.db.WithContext(ctx).Scopes(view.Scope).Order("id").Find(&patients).Error
	return patients, err
}

// Save inserts p when it has no id yet. Otherwise it overwrites the attributes
// of the active row p.ID. The deleted flag is never written here, so a row
// deleted since it was read stays deleted and Save returns ErrNotFound.
func (r *PatientRepository) Save(ctx context.Context, p *model.Patient) error {
	db := r.db.WithContext(ctx)
	if p.ID == 0 {
		return db.Create(p).Error
	}

	res := db.Model(&model.Patient{}).
		Where("id = ?", p.ID).
		Scopes(model.ViewActive.Scope).
		Omit("deleted").
		Updates(map[string]interface{}{
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"passport":   p.Passport,
			"phone":      p.Phone,
			"birth_date": p.BirthDate,
			"email":      p.Email,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when nothing changed.
	var active int64
	if err := db.Model(&model.Patient{}).Where("id = ?", p.ID).Scopes(model.ViewActive.Scope).Count(&active).Error; err != nil {
		return err
	}
	if active == 0 {
		return ErrNotFound
	}
	return nil
}

// Transaction runs fn against a repository bound to one database transaction.
func (r *PatientRepository) Transaction(ctx context.Context, fn func(tx *PatientRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PatientRepository{db: tx})
	})
}

// DeleteByID moves the patient to the deleted view. The row stays, and only
// the deleted column is written. A missing id is not an error.
func (r *PatientRepository) DeleteByID(ctx context.Context, id uint64) error {
	db := r.db.WithContext(ctx)

	var p model.Patient
	if err := db.Where("id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !p.IsActive() {
		return nil
	}

	deleted := model.MarkDeleted(p)
	return db.Model(&model.Patient{}).Where("id = ?", deleted.ID).Update("deleted", deleted.Deleted).Error
}
