package source

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	settings := Settings{
		Client:   &fakeDoer{},
		MboxPath: "/tmp/inbox.mbox",
		IMAP:     IMAPSettings{Host: "imap.example.com"},
		Logger:   zerolog.Nop(),
	}

	for _, name := range []string{"gmail", " GMAIL ", "google", "imap", "mbox"} {
		src, err := New(name, settings)
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if src.Name() != NormalizeName(name) {
			t.Fatalf("New(%q).Name() = %q", name, src.Name())
		}
	}

	if _, err := New("pop3", settings); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if _, err := New("mbox", Settings{}); err == nil {
		t.Fatalf("expected error for empty mbox path")
	}
	if _, err := New("gmail", Settings{}); err == nil {
		t.Fatalf("expected error without http client")
	}
}

func TestNames(t *testing.T) {
	want := []string{"gmail", "imap", "mbox"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestIsAuthError(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &AuthError{Source: NameIMAP, Message: "bad password"})
	if !IsAuthError(wrapped) {
		t.Fatalf("expected wrapped auth error to be detected")
	}
	if IsAuthError(errors.New("plain")) {
		t.Fatalf("plain error reported as auth error")
	}
}
