package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// tokenStub implementa TokenSource pros testes.
type tokenStub struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (t *tokenStub) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *tokenStub) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.cleared = true
}

func TestBearerAttachedWhenTokenHeld(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Category{})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{token: "tok-1"})
	if _, err := c.GetCategories(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestNoBearerWhenAnonymous(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Category{})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{})
	if _, err := c.GetCategories(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedClearsTokenOnAnyCall(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer backend.Close()

	tokens := &tokenStub{token: "expired"}
	c := New(backend.URL, tokens)

	_, err := c.GetPayments(context.Background(), "pending")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !tokens.cleared {
		t.Fatal("401 did not clear the token")
	}
}

func TestServerMessageSurfacedVerbatim(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Betting is closed"})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{})
	_, err := c.SubmitBets(context.Background(), SubmitBetsRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "Betting is closed" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
}

func TestSubmitBetsSendsBatch(t *testing.T) {
	var got SubmitBetsRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bets" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(SubmitBetsResponse{PaymentID: 42, TotalAmount: 10, VenmoUsername: "@family"})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{})
	resp, err := c.SubmitBets(context.Background(), SubmitBetsRequest{
		User: UserInfo{Name: "Jane", Email: "jane@example.com"},
		Bets: []BetInput{{CategoryID: 1, GuessValue: "a"}, {CategoryID: 1, GuessValue: "b"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.PaymentID != 42 || resp.TotalAmount != 10 || resp.VenmoUsername != "@family" {
		t.Fatalf("resp = %+v", resp)
	}
	if len(got.Bets) != 2 || got.User.Email != "jane@example.com" {
		t.Fatalf("backend saw %+v", got)
	}
}

func TestValidatePaymentPutsStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/admin/payments/7/validate" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "validated" {
			t.Errorf("status = %q", body["status"])
		}
		_ = json.NewEncoder(w).Encode(Payment{ID: 7, Status: "validated"})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{token: "tok"})
	p, err := c.ValidatePayment(context.Background(), 7, "validated")
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != "validated" {
		t.Fatalf("payment = %+v", p)
	}
}

func TestUploadImageSendsMultipart(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart parse: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			file.Close()
			if header.Filename != "baby.jpg" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		if r.FormValue("caption") != "hi" || r.FormValue("display_order") != "3" {
			t.Errorf("fields: caption=%q order=%q", r.FormValue("caption"), r.FormValue("display_order"))
		}
		_ = json.NewEncoder(w).Encode(SlideshowImage{ID: 1, ImageURL: "/uploads/x.jpg", IsActive: true})
	}))
	defer backend.Close()

	c := New(backend.URL, &tokenStub{token: "tok"})
	img, err := c.UploadImage(context.Background(), "baby.jpg", strings.NewReader("bytes"), "hi", 3)
	if err != nil {
		t.Fatal(err)
	}
	if img.ID != 1 {
		t.Fatalf("img = %+v", img)
	}
}
