package memory

import (
	"context"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
)

type refreshTokenRepository struct {
	store *Store
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.tokenSeq++
	token.ID = r.store.tokenSeq
	token.CreatedAt = time.Now()
	r.store.refreshTokens[token.ID] = cloneToken(token)
	return nil
}

func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, token := range r.store.refreshTokens {
		if token.TokenHash == tokenHash {
			return cloneToken(token), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for _, token := range r.store.refreshTokens {
		if token.TokenHash == tokenHash && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for _, token := range r.store.refreshTokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for id, token := range r.store.refreshTokens {
		if token.ExpiresAt.Before(now) {
			delete(r.store.refreshTokens, id)
		}
	}
	return nil
}
