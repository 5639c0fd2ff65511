package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
	cryptoService "github.com/cipherapi/cipherapi/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for envelope encryption and prints the environment variables to configure it.
// Key material is zeroed from memory after encoding.
//
// Without a KMS key URI the plain key is printed as MASTER_KEY_B64. With a KMS
// key URI the key is encrypted through the KMS keeper first and printed as
// MASTER_KEY_ENC_B64 together with KMS_KEY_URI. For local development use
// kmsKeyURI="base64key://<32-byte-base64-key>".
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	out io.Writer,
	kmsKeyURI string,
) error {
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		encodedKey := base64.StdEncoding.EncodeToString(masterKey)
		fmt.Fprintln(out, "# Master Key Configuration (plain mode)")
		fmt.Fprintln(out, "# Copy this environment variable to your .env file or secrets manager")
		fmt.Fprintln(out, "# Do not use plain mode in production, prefer a KMS-encrypted key")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "MASTER_KEY_B64=\"%s\"\n", encodedKey)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Fprintf(out, "# Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(ciphertext)
	fmt.Fprintln(out, "# Master Key Configuration (KMS mode)")
	fmt.Fprintln(out, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	fmt.Fprintf(out, "MASTER_KEY_ENC_B64=\"%s\"\n", encodedKey)
	return nil
}
