package prefs

import (
	"context"
	"strings"
)

const (
	KeyUsername    = "username"
	KeyFirstLaunch = "is_first_launch"
)

type Store interface {
	Get(ctx context.Context, userID int64, key string) (string, bool, error)
	SetMany(ctx context.Context, userID int64, kv map[string]string) error
}

type Service struct{ store Store }

func NewService(store Store) *Service { return &Service{store: store} }

// IsFirstLaunch true, пока пользователь не сохранил имя.
func (s *Service) IsFirstLaunch(ctx context.Context, userID int64) (bool, error) {
	v, ok, err := s.store.Get(ctx, userID, KeyFirstLaunch)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return v != "false", nil
}

func (s *Service) Username(ctx context.Context, userID int64) (string, error) {
	v, _, err := s.store.Get(ctx, userID, KeyUsername)
	return v, err
}

// SaveUsername пустое имя игнорируется, ok=false.
func (s *Service) SaveUsername(ctx context.Context, userID int64, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	err := s.store.SetMany(ctx, userID, map[string]string{
		KeyUsername:    name,
		KeyFirstLaunch: "false",
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
