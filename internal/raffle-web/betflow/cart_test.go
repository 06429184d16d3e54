package betflow

import (
	"errors"
	"testing"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
)

func TestTotalCentsDerivedFromCount(t *testing.T) {
	c := &Cart{}
	for n := int64(0); n <= 5; n++ {
		if got := c.TotalCents(); got != 500*n {
			t.Fatalf("n=%d: TotalCents() = %d, want %d", n, got, 500*n)
		}
		c.Add(1)
	}
}

func TestRemoveByIndex(t *testing.T) {
	c := &Cart{}
	c.Add(1)
	c.Add(1)
	c.Remove(0)

	v := c.View()
	if len(v.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(v.Selections))
	}
	if v.Selections[0].CategoryID != 1 {
		t.Fatalf("category = %d, want 1", v.Selections[0].CategoryID)
	}

	// índices fora da lista são ignorados
	c.Remove(5)
	c.Remove(-1)
	if len(c.View().Selections) != 1 {
		t.Fatal("out-of-range remove changed the cart")
	}
}

func TestUpdateGuess(t *testing.T) {
	c := &Cart{}
	c.Add(2)
	c.UpdateGuess(0, "7 lbs 8 oz")
	c.UpdateGuess(9, "ignored")

	v := c.View()
	if v.Selections[0].GuessValue != "7 lbs 8 oz" {
		t.Fatalf("guess = %q", v.Selections[0].GuessValue)
	}
}

func TestValidatePreconditions(t *testing.T) {
	c := &Cart{}
	if err := c.Validate(); !errors.Is(err, ErrNoBets) {
		t.Fatalf("empty cart: err = %v, want ErrNoBets", err)
	}

	c.Add(1)
	c.SetContact("Jane", "jane@example.com", "")
	if err := c.Validate(); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("empty guess: err = %v, want ErrEmptyGuess", err)
	}

	c.UpdateGuess(0, "   ")
	if err := c.Validate(); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("whitespace guess: err = %v, want ErrEmptyGuess", err)
	}

	c.UpdateGuess(0, "March 15")
	c.SetContact("", "jane@example.com", "")
	if err := c.Validate(); !errors.Is(err, ErrMissingContact) {
		t.Fatalf("missing name: err = %v, want ErrMissingContact", err)
	}

	c.SetContact("Jane", "", "")
	if err := c.Validate(); !errors.Is(err, ErrMissingContact) {
		t.Fatalf("missing email: err = %v, want ErrMissingContact", err)
	}

	c.SetContact("Jane", "jane@example.com", "")
	if err := c.Validate(); err != nil {
		t.Fatalf("valid cart: err = %v", err)
	}
}

func TestBeginSubmitGuardsDoubleClick(t *testing.T) {
	c := &Cart{}
	if err := c.BeginSubmit(); err != nil {
		t.Fatalf("first BeginSubmit: %v", err)
	}
	if err := c.BeginSubmit(); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("second BeginSubmit: err = %v, want ErrSubmitting", err)
	}
	c.EndSubmit()
	if err := c.BeginSubmit(); err != nil {
		t.Fatalf("after EndSubmit: %v", err)
	}
}

func TestRequestTrimsValues(t *testing.T) {
	c := &Cart{}
	c.Add(3)
	c.UpdateGuess(0, "  20 inches  ")
	c.SetContact("  Jane  ", " jane@example.com ", " 555 ")

	req := c.Request()
	if req.Bets[0].GuessValue != "20 inches" {
		t.Fatalf("guess = %q", req.Bets[0].GuessValue)
	}
	if req.User.Name != "Jane" || req.User.Email != "jane@example.com" || req.User.Phone != "555" {
		t.Fatalf("user = %+v", req.User)
	}
}

func TestCompleteKeepsOrderAndEmptiesCart(t *testing.T) {
	c := &Cart{}
	c.Add(1)
	c.UpdateGuess(0, "x")
	c.SetContact("Jane", "jane@example.com", "")

	resp := &api.SubmitBetsResponse{PaymentID: 42, TotalAmount: 10, VenmoUsername: "@family"}
	c.Complete(resp)

	if got := c.LastOrder(); got == nil || got.PaymentID != 42 {
		t.Fatalf("LastOrder = %+v", got)
	}
	if len(c.View().Selections) != 0 {
		t.Fatal("selections survived Complete")
	}
	if c.TotalCents() != 0 {
		t.Fatal("total not reset")
	}
}

func TestStoreReturnsSameCartPerVisitor(t *testing.T) {
	s := NewStore()
	a := s.Get("v1")
	a.Add(1)

	if got := s.Get("v1"); got != a {
		t.Fatal("same visitor got a different cart")
	}
	if got := s.Get("v2"); got == a {
		t.Fatal("different visitors share a cart")
	}
}
