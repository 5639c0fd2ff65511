package usecase

import (
	"context"
	"time"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	"github.com/cipherapi/cipherapi/internal/metrics"
	payloadDomain "github.com/cipherapi/cipherapi/internal/payload/domain"
)

// payloadUseCaseWithMetrics decorates PayloadUseCase with metrics instrumentation.
type payloadUseCaseWithMetrics struct {
	next    PayloadUseCase
	metrics metrics.BusinessMetrics
}

// NewPayloadUseCaseWithMetrics wraps a PayloadUseCase with metrics recording.
func NewPayloadUseCaseWithMetrics(useCase PayloadUseCase, m metrics.BusinessMetrics) PayloadUseCase {
	return &payloadUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for payload encryption operations.
func (p *payloadUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	identity *identityDomain.Identity,
	text string,
) (*payloadDomain.EncryptedPayload, error) {
	start := time.Now()
	envelope, err := p.next.Encrypt(ctx, identity, text)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "payload", "payload_encrypt", status)
	p.metrics.RecordDuration(ctx, "payload", "payload_encrypt", time.Since(start), status)

	return envelope, err
}

// Decrypt records metrics for payload decryption operations.
func (p *payloadUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	identity *identityDomain.Identity,
	input *payloadDomain.DecryptInput,
) (string, error) {
	start := time.Now()
	plaintext, err := p.next.Decrypt(ctx, identity, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "payload", "payload_decrypt", status)
	p.metrics.RecordDuration(ctx, "payload", "payload_decrypt", time.Since(start), status)

	return plaintext, err
}
