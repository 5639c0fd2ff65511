package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

func TestKeyRecord_IsShared(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())

	shared := &KeyRecord{ID: uuid.Must(uuid.NewV7()), UserID: nil}
	owned := &KeyRecord{ID: uuid.Must(uuid.NewV7()), UserID: &userID}

	assert.True(t, shared.IsShared())
	assert.False(t, owned.IsShared())
}

func TestKeyRecord_IsActive(t *testing.T) {
	now := time.Now().UTC()

	active := &KeyRecord{ID: uuid.Must(uuid.NewV7())}
	retired := &KeyRecord{ID: uuid.Must(uuid.NewV7()), RetiredAt: &now}

	assert.True(t, active.IsActive())
	assert.False(t, retired.IsActive())
}

func TestActiveKey_Zero(t *testing.T) {
	key := &ActiveKey{
		ID:   uuid.Must(uuid.NewV7()),
		Algo: cryptoDomain.AESGCM,
		Key:  []byte{1, 2, 3, 4},
	}

	key.Zero()

	assert.Equal(t, make([]byte, 4), key.Key)
}
