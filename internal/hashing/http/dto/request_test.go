package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := HashRequest{
			Text: "my secret data",
		}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Error_MissingText", func(t *testing.T) {
		req := HashRequest{
			Text: "",
		}

		err := req.Validate()
		assert.Error(t, err)
	})
}

func TestVerifyRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := VerifyRequest{
			Plaintext: "my secret data",
			Hash:      "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		}

		err := req.Validate()
		assert.NoError(t, err)
	})

	t.Run("Error_MissingPlaintext", func(t *testing.T) {
		req := VerifyRequest{
			Hash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		}

		err := req.Validate()
		assert.Error(t, err)
	})

	t.Run("Error_MissingHash", func(t *testing.T) {
		req := VerifyRequest{
			Plaintext: "my secret data",
		}

		err := req.Validate()
		assert.Error(t, err)
	})

	t.Run("Error_BlankHash", func(t *testing.T) {
		req := VerifyRequest{
			Plaintext: "my secret data",
			Hash:      "   ",
		}

		err := req.Validate()
		assert.Error(t, err)
	})
}
