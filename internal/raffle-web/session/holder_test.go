package session

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestHolderLoadsStoredTokenAtStartup(t *testing.T) {
	st := &MemoryStorage{}
	if err := st.Save(context.Background(), "tok-1"); err != nil {
		t.Fatal(err)
	}

	h := NewHolder(context.Background(), st, zap.NewNop())
	if !h.Authenticated() {
		t.Fatal("stored token should imply authenticated")
	}
	if h.Token() != "tok-1" {
		t.Fatalf("token = %q", h.Token())
	}
}

func TestLoginOverwritesAndPersists(t *testing.T) {
	st := &MemoryStorage{}
	h := NewHolder(context.Background(), st, zap.NewNop())

	if h.Authenticated() {
		t.Fatal("fresh holder should be anonymous")
	}

	h.Login(context.Background(), "tok-a")
	h.Login(context.Background(), "tok-b")
	if h.Token() != "tok-b" {
		t.Fatalf("token = %q, want tok-b", h.Token())
	}
	if stored, _ := st.Load(context.Background()); stored != "tok-b" {
		t.Fatalf("stored = %q, want tok-b", stored)
	}
}

func TestLogoutClearsStorage(t *testing.T) {
	st := &MemoryStorage{}
	h := NewHolder(context.Background(), st, zap.NewNop())
	h.Login(context.Background(), "tok")

	h.Logout(context.Background())
	if h.Authenticated() {
		t.Fatal("still authenticated after logout")
	}
	if stored, _ := st.Load(context.Background()); stored != "" {
		t.Fatalf("stored = %q, want empty", stored)
	}
}

func TestClearActsAsTokenSource(t *testing.T) {
	st := &MemoryStorage{}
	h := NewHolder(context.Background(), st, zap.NewNop())
	h.Login(context.Background(), "tok")

	// caminho usado pelo api.Client no 401
	h.Clear()
	if h.Authenticated() {
		t.Fatal("still authenticated after Clear")
	}
}
