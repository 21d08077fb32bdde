package health

import (
	"context"
	"errors"
	"testing"
)

type fakeDB struct{ err error }

func (f fakeDB) Ping(ctx context.Context) error { return f.err }

type fakeCache struct{ enabled, healthy bool }

func (f fakeCache) Enabled() bool                      { return f.enabled }
func (f fakeCache) IsHealthy(ctx context.Context) bool { return f.healthy }

func TestCheckReady(t *testing.T) {
	tests := []struct {
		name       string
		db         fakeDB
		cache      CacheProbe
		wantStatus string
		wantCache  string
	}{
		{"all healthy", fakeDB{}, fakeCache{true, true}, StatusHealthy, StatusHealthy},
		{"cache disabled", fakeDB{}, fakeCache{false, false}, StatusHealthy, StatusDisabled},
		{"no cache", fakeDB{}, nil, StatusHealthy, StatusDisabled},
		{"cache down", fakeDB{}, fakeCache{true, false}, StatusHealthy, StatusUnhealthy},
		{"db down", fakeDB{errors.New("refused")}, fakeCache{true, true}, StatusUnhealthy, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthChecker(tt.db, tt.cache).CheckReady(context.Background())
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Cache.Status != tt.wantCache {
				t.Errorf("Cache.Status = %s, want %s", got.Cache.Status, tt.wantCache)
			}
		})
	}
}
