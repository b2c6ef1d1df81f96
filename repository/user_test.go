package repository

import (
	"context"
	"testing"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	exists, err := repo.ExistsByUsername(ctx, "reception")
	require.NoError(t, err)
	assert.False(t, exists)

	u := model.ReceptionUser{Username: "reception", Password: "argon2id$salt$hash"}
	require.NoError(t, repo.Save(ctx, &u))
	assert.NotZero(t, u.ID)

	exists, err = repo.ExistsByUsername(ctx, "reception")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.FindByUsername(ctx, "reception")
	require.NoError(t, err)
	assert.Equal(t, "argon2id$salt$hash", got.Password)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := model.ReceptionUser{Username: "reception", Password: "x"}
	assert.Error(t, repo.Save(ctx, &dup))
}
