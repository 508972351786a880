package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"connect/internal/repository"

	"github.com/google/uuid"
)

type mockSkillStore struct {
	skill repository.SkillWithOwner
	items []repository.SkillWithOwner
	err   error

	listCalls int
	deleted   bool
}

func (m *mockSkillStore) Create(_ context.Context, s repository.Skill) (repository.Skill, error) {
	return s, m.err
}
func (m *mockSkillStore) GetByID(context.Context, uuid.UUID) (repository.SkillWithOwner, error) {
	return m.skill, m.err
}
func (m *mockSkillStore) List(context.Context, repository.SkillListFilter) ([]repository.SkillWithOwner, error) {
	m.listCalls++
	return m.items, m.err
}
func (m *mockSkillStore) Count(context.Context, repository.SkillListFilter) (int64, error) {
	return int64(len(m.items)), m.err
}
func (m *mockSkillStore) ListByOwner(context.Context, uuid.UUID) ([]repository.Skill, error) {
	return nil, m.err
}
func (m *mockSkillStore) Update(_ context.Context, s repository.Skill) (repository.Skill, error) {
	return s, m.err
}
func (m *mockSkillStore) Delete(context.Context, uuid.UUID) error {
	m.deleted = true
	return m.err
}

type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = b
	return nil
}

func validCreateSkillInput() CreateSkillInput {
	return CreateSkillInput{
		Title:       "Bike repair",
		Description: "Tune-ups and flat fixes",
		Price:       40,
		PriceType:   repository.PriceTypeFlat,
		Category:    "other",
		Tags:        []string{"bikes"},
	}
}

func TestSkillCreate_Validation(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillStore{}, nil, 0)

	cases := []struct {
		name   string
		mutate func(*CreateSkillInput)
	}{
		{"empty title", func(in *CreateSkillInput) { in.Title = "" }},
		{"zero price", func(in *CreateSkillInput) { in.Price = 0 }},
		{"bad price type", func(in *CreateSkillInput) { in.PriceType = "WEEKLY" }},
		{"empty category", func(in *CreateSkillInput) { in.Category = "" }},
		{"too many tags", func(in *CreateSkillInput) {
			in.Tags = make([]string, maxTags+1)
			for i := range in.Tags {
				in.Tags[i] = "t"
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateSkillInput()
			tc.mutate(&in)
			if _, err := uc.Create(context.Background(), uuid.New(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSkillCreate_DefaultsToActive(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillStore{}, nil, 0)
	s, err := uc.Create(context.Background(), uuid.New(), validCreateSkillInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !s.IsActive {
		t.Fatalf("new skill must start active")
	}
}

func TestSkillList_CachesSecondRead(t *testing.T) {
	store := &mockSkillStore{items: []repository.SkillWithOwner{{Skill: repository.Skill{
		ID:    uuid.New(),
		Title: "Bike repair",
	}}}}
	uc := NewSkillUsecase(store, newMapCache(), time.Minute)

	p := SkillListParams{Search: "bike"}
	items, total, err := uc.List(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || total != 1 {
		t.Fatalf("expected 1 item, got %d (total %d)", len(items), total)
	}

	if _, _, err := uc.List(context.Background(), p); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected repository hit once, got %d", store.listCalls)
	}
}

func TestSkillList_CapsLimit(t *testing.T) {
	store := &mockSkillStore{}
	uc := NewSkillUsecase(store, nil, 0)

	if _, _, err := uc.List(context.Background(), SkillListParams{Limit: 500}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, _, err := uc.List(context.Background(), SkillListParams{Offset: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative offset, got %v", err)
	}
}

func TestSkillUpdate_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	store := &mockSkillStore{skill: repository.SkillWithOwner{Skill: repository.Skill{
		ID:          uuid.New(),
		UserID:      owner,
		Title:       "Bike repair",
		Description: "Tune-ups",
		Price:       40,
		PriceType:   repository.PriceTypeFlat,
		Category:    "other",
		IsActive:    true,
	}}}
	uc := NewSkillUsecase(store, nil, 0)

	if _, err := uc.Update(context.Background(), uuid.New(), store.skill.ID, UpdateSkillInput{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	newTitle := "Bike repair and tuning"
	updated, err := uc.Update(context.Background(), owner, store.skill.ID, UpdateSkillInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("title not applied")
	}
	if updated.Description != "Tune-ups" {
		t.Fatalf("omitted field must keep stored value")
	}
}

func TestSkillDelete_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	store := &mockSkillStore{skill: repository.SkillWithOwner{Skill: repository.Skill{
		ID:     uuid.New(),
		UserID: owner,
	}}}
	uc := NewSkillUsecase(store, nil, 0)

	if err := uc.Delete(context.Background(), uuid.New(), store.skill.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.deleted {
		t.Fatalf("delete must not reach repository for non-owner")
	}

	if err := uc.Delete(context.Background(), owner, store.skill.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !store.deleted {
		t.Fatalf("expected repository delete")
	}
}
