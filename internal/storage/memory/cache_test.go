package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

func TestInfoCache_PutGet(t *testing.T) {
	c := NewInfoCache()

	if _, ok := c.Get("u1"); ok {
		t.Fatal("empty cache should miss")
	}

	info := domain.UserInfo{UserID: "u1", Username: "alice", Role: domain.RoleUser}
	c.Put("u1", info)

	got, ok := c.Get("u1")
	if !ok || got != info {
		t.Fatalf("Get() = (%+v, %v), want (%+v, true)", got, ok, info)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInfoCache_StoresByValue(t *testing.T) {
	c := NewInfoCache()
	info := domain.UserInfo{UserID: "u1", Username: "alice"}
	c.Put("u1", info)

	info.Username = "mallory"
	got, _ := c.Get("u1")
	if got.Username != "alice" {
		t.Errorf("cached value changed through the caller's copy: %q", got.Username)
	}
}

func TestInfoCache_Overwrite(t *testing.T) {
	c := NewInfoCache()
	c.Put("u1", domain.UserInfo{UserID: "u1", DisplayName: "old"})
	c.Put("u1", domain.UserInfo{UserID: "u1", DisplayName: "new"})

	got, _ := c.Get("u1")
	if got.DisplayName != "new" {
		t.Errorf("DisplayName = %q, want new", got.DisplayName)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInfoCache_Concurrent(t *testing.T) {
	c := NewInfoCache()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put("u1", domain.UserInfo{UserID: "u1", Username: "alice"})
		}()
		go func() {
			defer wg.Done()
			if got, ok := c.Get("u1"); ok && got.Username != "alice" {
				t.Errorf("torn read: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestStats(t *testing.T) {
	store := New()
	cache := NewInfoCache()
	if _, err := store.Create("1", domain.RoleUser, time.Hour); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	cache.Put("1", domain.UserInfo{UserID: "1"})
	cache.Put("2", domain.UserInfo{UserID: "2"})

	s := Stats{Store: store, Cache: cache}
	if s.ActiveSessions() != 1 || s.CachedProfiles() != 2 {
		t.Errorf("Stats = (%d, %d), want (1, 2)", s.ActiveSessions(), s.CachedProfiles())
	}
	if (Stats{}).ActiveSessions() != 0 || (Stats{}).CachedProfiles() != 0 {
		t.Error("zero Stats should report zero")
	}
}
