package network

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRotatorRoundRobin(t *testing.T) {
	rotator, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRotator() error: %v", err)
	}

	var got []string
	for i := 0; i < 3; i++ {
		proxy, err := rotator.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		got = append(got, proxy.Host)
	}
	want := []string{"a:1", "b:2", "a:1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next() sequence = %v, want %v", got, want)
		}
	}
}

func TestRotatorBansAndRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rotator, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRotator() error: %v", err)
	}
	rotator.now = func() time.Time { return now }

	first, _ := rotator.Next()
	rotator.Report(first, 429)
	rotator.Report(first, 200)

	for i := 0; i < 2; i++ {
		proxy, err := rotator.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if proxy.Host != "b:2" {
			t.Fatalf("expected banned proxy to be skipped, got %s", proxy.Host)
		}
	}

	second, _ := rotator.Next()
	rotator.Report(second, 403)
	if _, err := rotator.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("expected ErrNoProxies, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := rotator.Next(); err != nil {
		t.Fatalf("expected ban to expire, got %v", err)
	}
}

func TestNewRotatorRejectsBareHost(t *testing.T) {
	if _, err := NewRotator([]string{"proxy.local"}, 0, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for proxy without scheme")
	}
	empty, err := NewRotator(nil, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRotator() error: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", empty.Len())
	}
	if _, err := empty.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("expected ErrNoProxies, got %v", err)
	}
}
