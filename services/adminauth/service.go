package adminauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/pkg/repository"
)

const keyPrefix = "ak_"

type Service struct {
	repo repository.Repository[APIKey]
	node *snowflake.Node
}

type ServiceParams struct {
	fx.In
	Repo repository.Repository[APIKey]
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{repo: p.Repo, node: p.Node}
}

// Issue mints a new operator key and returns the plaintext exactly once.
func (s *Service) Issue(ctx context.Context, name string) (*APIKey, string, error) {
	if name == "" {
		return nil, "", errutil.ValidationFailed("a key name is required")
	}

	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", errutil.Internal("generate api key", errutil.WithErr(err))
	}
	plaintext := keyPrefix + hex.EncodeToString(raw)

	key := &APIKey{
		ID:        s.node.Generate().String(),
		Name:      name,
		KeyHash:   hash(plaintext),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, "", errutil.Internal("store api key", errutil.WithErr(err))
	}

	zap.L().Info("api key issued", zap.String("name", name), zap.String("id", key.ID))
	return key, plaintext, nil
}

// Authenticate resolves a presented plaintext key, rejecting revoked ones.
func (s *Service) Authenticate(ctx context.Context, plaintext string) (*APIKey, error) {
	if plaintext == "" {
		return nil, errutil.Unauthorized("missing API key")
	}

	key, err := s.repo.FindOne(ctx, &APIKey{KeyHash: hash(plaintext)})
	if err != nil {
		return nil, errutil.Internal("lookup api key", errutil.WithErr(err))
	}
	if key == nil || key.RevokedAt != nil {
		return nil, errutil.Unauthorized("invalid API key")
	}

	now := time.Now().UTC()
	if err := s.repo.Update(ctx, key.ID, map[string]any{"last_used_at": now}); err != nil {
		zap.L().Warn("api key last_used_at update failed", zap.Error(err))
	}
	key.LastUsedAt = &now

	return key, nil
}

// Revoke disables a key without deleting its audit trail.
func (s *Service) Revoke(ctx context.Context, id string) error {
	key, err := s.repo.FindOne(ctx, &APIKey{ID: id})
	if err != nil {
		return errutil.Internal("lookup api key", errutil.WithErr(err))
	}
	if key == nil {
		return errutil.NotFound("api key not found")
	}
	if key.RevokedAt != nil {
		return nil
	}
	return s.repo.Update(ctx, id, map[string]any{"revoked_at": time.Now().UTC()})
}

func hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
