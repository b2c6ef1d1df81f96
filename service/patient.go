package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
)

// PatientStore is the persistence the patient service needs.
type PatientStore interface {
	FindByID(ctx context.Context, id uint64, view model.View) (model.Patient, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, view model.View) ([]model.Patient, error)
	// Save inserts a new patient or overwrites an active one. Overwriting a
	// missing or deleted row fails with repository.ErrNotFound.
	Save(ctx context.Context, p *model.Patient) error
	DeleteByID(ctx context.Context, id uint64) error
	// Transaction runs fn with a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx PatientStore) error) error
}

// repositoryStore adapts the gorm repository to PatientStore.
type repositoryStore struct {
	*repository.PatientRepository
}

// StoreFromRepository wraps repo for use by PatientService.
func StoreFromRepository(repo *repository.PatientRepository) PatientStore {
	return repositoryStore{PatientRepository: repo}
}

func (s repositoryStore) Transaction(ctx context.Context, fn func(tx PatientStore) error) error {
	return s.PatientRepository.Transaction(ctx, func(tx *repository.PatientRepository) error {
		return fn(repositoryStore{PatientRepository: tx})
	})
}

// PatientInput carries a validated new patient.
type PatientInput struct {
	FirstName string
	LastName  string
	Passport  string
	Phone     string
	BirthDate time.Time
	Email     string
}

// PatientUpdate lists the fields to overwrite. Nil fields keep their stored value.
type PatientUpdate struct {
	FirstName *string
	LastName  *string
	Passport  *string
	Phone     *string
	BirthDate *time.Time
	Email     *string
}

// Apply returns p with every non-nil field of u copied over.
func (u PatientUpdate) Apply(p model.Patient) model.Patient {
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Passport != nil {
		p.Passport = *u.Passport
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.BirthDate != nil {
		p.BirthDate = *u.BirthDate
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	return p
}

type PatientService struct {
	store PatientStore
}

func NewPatientService(store PatientStore) *PatientService {
	return &PatientService{store: store}
}

// FindByID returns an active patient.
func (s *PatientService) FindByID(ctx context.Context, id uint64) (model.Patient, error) {
	return findPatient(ctx, s.store, id, model.ViewActive)
}

// FindDeletedByID returns a patient that has been deleted.
func (s *PatientService) FindDeletedByID(ctx context.Context, id uint64) (model.Patient, error) {
	return findPatient(ctx, s.store, id, model.ViewDeleted)
}

func findPatient(ctx context.Context, store PatientStore, id uint64, view model.View) (model.Patient, error) {
	p, err := store.FindByID(ctx, id, view)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Patient{}, ErrPatientNotFound
	}
	if err != nil {
		return model.Patient{}, fmt.Errorf("find patient %d: %w", id, err)
	}
	return p, nil
}

func (s *PatientService) FindAll(ctx context.Context) ([]model.Patient, error) {
	return s.store.FindAll(ctx, model.ViewActive)
}

func (s *PatientService) FindAllDeleted(ctx context.Context) ([]model.Patient, error) {
	return s.store.FindAll(ctx, model.ViewDeleted)
}

// Create stores a new active patient. The email must not be used by any
// patient, deleted ones included.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (model.Patient, error) {
	p := model.Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Passport:  in.Passport,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Email:     in.Email,
	}

	err := s.store.Transaction(ctx, func(tx PatientStore) error {
		if err := ensureEmailFree(ctx, tx, in.Email); err != nil {
			return err
		}
		if err := tx.Save(ctx, &p); err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Patient{}, err
	}
	return p, nil
}

// Update merges u into the active patient id. The email is rechecked only when
// it changes. A patient deleted while the update runs is reported as not found
// and stays deleted.
func (s *PatientService) Update(ctx context.Context, id uint64, u PatientUpdate) (model.Patient, error) {
	var merged model.Patient
	err := s.store.Transaction(ctx, func(tx PatientStore) error {
		current, err := findPatient(ctx, tx, id, model.ViewActive)
		if err != nil {
			return err
		}

		if u.Email != nil && *u.Email != current.Email {
			if err := ensureEmailFree(ctx, tx, *u.Email); err != nil {
				return err
			}
		}

		merged = u.Apply(current)
		err = tx.Save(ctx, &merged)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPatientNotFound
		}
		if err != nil {
			return fmt.Errorf("update patient %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return model.Patient{}, err
	}
	return merged, nil
}

// Delete moves the patient to the deleted view. Unknown and already deleted ids succeed.
func (s *PatientService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	return nil
}

func ensureEmailFree(ctx context.Context, store PatientStore, email string) error {
	taken, err := store.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check patient email: %w", err)
	}
	if taken {
		return ErrPatientEmailExists
	}
	return nil
}
