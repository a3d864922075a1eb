package prefs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Spok95/pocket-bot/internal/domain/prefs"
)

type memStore struct {
	data map[int64]map[string]string
	err  error
}

func newMemStore() *memStore { return &memStore{data: map[int64]map[string]string{}} }

func (m *memStore) Get(_ context.Context, uid int64, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[uid][key]
	return v, ok, nil
}

func (m *memStore) SetMany(_ context.Context, uid int64, kv map[string]string) error {
	if m.err != nil {
		return m.err
	}
	if m.data[uid] == nil {
		m.data[uid] = map[string]string{}
	}
	for k, v := range kv {
		m.data[uid][k] = v
	}
	return nil
}

func TestFirstLaunchUntilNameSaved(t *testing.T) {
	ctx := context.Background()
	svc := prefs.NewService(newMemStore())

	first, err := svc.IsFirstLaunch(ctx, 1)
	if err != nil || !first {
		t.Fatalf("first launch = %v, %v; want true", first, err)
	}
	name, _ := svc.Username(ctx, 1)
	if name != "" {
		t.Fatalf("username = %q, want empty", name)
	}

	ok, err := svc.SaveUsername(ctx, 1, "  Ane  ")
	if err != nil || !ok {
		t.Fatalf("save: %v, %v", ok, err)
	}
	first, _ = svc.IsFirstLaunch(ctx, 1)
	if first {
		t.Fatal("first launch must be cleared after saving a name")
	}
	name, _ = svc.Username(ctx, 1)
	if name != "Ane" {
		t.Fatalf("username = %q, want trimmed", name)
	}
}

func TestSaveBlankIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := prefs.NewService(store)

	ok, err := svc.SaveUsername(ctx, 7, "   ")
	if err != nil || ok {
		t.Fatalf("blank save = %v, %v; want false, nil", ok, err)
	}
	if len(store.data[7]) != 0 {
		t.Fatal("blank name must not touch the store")
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("boom")
	svc := prefs.NewService(store)

	if _, err := svc.IsFirstLaunch(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}
