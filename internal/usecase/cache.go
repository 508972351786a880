package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cache is an optional read-through cache; a nil Cache means bypass.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type skillSearchCacheKeyInput struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	UserID   string `json:"user_id"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func skillsSearchCacheKey(p SkillListParams) string {
	in := skillSearchCacheKeyInput{
		Category: normalizeSearchValue(p.Category),
		Search:   normalizeSearchValue(p.Search),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	if p.UserID != uuid.Nil {
		in.UserID = p.UserID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "skills:search:" + hex.EncodeToString(sum[:])
}
