package repository

import (
	"context"

	"github.com/nadvoretskiy13/attestation03/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.ReceptionUser, error) {
	var u model.ReceptionUser
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	return u, translate(err)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ReceptionUser{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Save(ctx context.Context, u *model.ReceptionUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}
