package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Preço fixo por palpite, em centavos, espelhando o contrato do frontend.
const UnitPriceCents int64 = 500

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrNotFound           = errors.New("not found")
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	// calculados na leitura
	CurrentPot float64 `json:"current_pot"`
	TotalBets  int     `json:"total_bets"`
}

type Payment struct {
	ID          int64   `json:"id"`
	UserName    string  `json:"user_name"`
	UserEmail   string  `json:"user_email"`
	TotalAmount float64 `json:"total_amount"`
	BetCount    int     `json:"bet_count"`
	Status      string  `json:"status"` // pending | validated | rejected
}

type Bet struct {
	ID            int64   `json:"id"`
	CategoryID    int64   `json:"-"`
	CategoryName  string  `json:"category_name"`
	GuessValue    string  `json:"guess_value"`
	UserName      string  `json:"user_name"`
	UserEmail     string  `json:"user_email"`
	Amount        float64 `json:"amount"`
	PaymentID     int64   `json:"-"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
}

type Image struct {
	ID           int64  `json:"id"`
	ImageURL     string `json:"image_url"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type BetInput struct {
	CategoryID int64  `json:"category_id"`
	GuessValue string `json:"guess_value"`
}

type OverallStats struct {
	TotalBets       int     `json:"total_bets"`
	ValidatedAmount float64 `json:"validated_amount"`
	PendingCount    int     `json:"pending_count"`
	PendingAmount   float64 `json:"pending_amount"`
	TotalPayments   int     `json:"total_payments"`
}

type CategoryStats struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	TotalBets int     `json:"total_bets"`
	PotAmount float64 `json:"pot_amount"`
}

type Stats struct {
	Overall    OverallStats    `json:"overall"`
	Categories []CategoryStats `json:"categories"`
}

// Store guarda todo o estado do simulador em memória, sob um único mutex.
// Serve só pra desenvolvimento local do frontend; nada é persistido.
type Store struct {
	mu sync.Mutex

	adminUser string
	adminPass string
	venmo     string

	categories []Category
	payments   []*Payment
	bets       []*Bet
	images     []*Image
	tokens     map[string]bool

	nextPaymentID int64
	nextBetID     int64
	nextImageID   int64
}

func New(adminUser, adminPass, venmo string) *Store {
	return &Store{
		adminUser: adminUser,
		adminPass: adminPass,
		venmo:     venmo,
		tokens:    make(map[string]bool),
		categories: []Category{
			{ID: 1, Name: "Birth Date", Description: "When will the baby arrive?", Unit: "date"},
			{ID: 2, Name: "Weight", Description: "How much will the baby weigh?", Unit: "lbs-oz"},
			{ID: 3, Name: "Length", Description: "How long will the baby be?", Unit: "inches"},
			{ID: 4, Name: "First Letter", Description: "First letter of the middle name", Unit: "letter"},
			{ID: 5, Name: "Time of Birth", Description: "What time will the baby be born?", Unit: "time"},
		},
	}
}

func (s *Store) VenmoUsername() string { return s.venmo }

// Categories retorna as categorias com pote e contagem calculados na hora.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		c.CurrentPot, c.TotalBets = s.categoryTotalsLocked(c.ID)
		out[i] = c
	}
	return out
}

func (s *Store) categoryTotalsLocked(categoryID int64) (pot float64, total int) {
	for _, b := range s.bets {
		if b.CategoryID != categoryID {
			continue
		}
		total++
		if b.PaymentStatus == "validated" {
			pot += b.Amount
		}
	}
	return pot, total
}

// CreateOrder aceita o lote inteiro ou nada: um pagamento, n palpites.
func (s *Store) CreateOrder(user UserInfo, bets []BetInput) (*Payment, error) {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" || len(bets) == 0 {
		return nil, ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[int64]string, len(s.categories))
	for _, c := range s.categories {
		names[c.ID] = c.Name
	}
	for _, b := range bets {
		if strings.TrimSpace(b.GuessValue) == "" {
			return nil, ErrInvalidPayload
		}
		if _, ok := names[b.CategoryID]; !ok {
			return nil, ErrInvalidPayload
		}
	}

	s.nextPaymentID++
	p := &Payment{
		ID:          s.nextPaymentID,
		UserName:    strings.TrimSpace(user.Name),
		UserEmail:   strings.TrimSpace(user.Email),
		TotalAmount: float64(int64(len(bets))*UnitPriceCents) / 100,
		BetCount:    len(bets),
		Status:      "pending",
	}
	s.payments = append(s.payments, p)

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range bets {
		s.nextBetID++
		s.bets = append(s.bets, &Bet{
			ID:            s.nextBetID,
			CategoryID:    b.CategoryID,
			CategoryName:  names[b.CategoryID],
			GuessValue:    strings.TrimSpace(b.GuessValue),
			UserName:      p.UserName,
			UserEmail:     p.UserEmail,
			Amount:        float64(UnitPriceCents) / 100,
			PaymentID:     p.ID,
			PaymentStatus: "pending",
			CreatedAt:     now,
		})
	}

	cp := *p
	return &cp, nil
}

// IssueToken valida as credenciais e emite um bearer token opaco.
func (s *Store) IssueToken(username, password string) (string, error) {
	if username != s.adminUser || password != s.adminPass {
		return "", ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := uuid.NewString()
	s.tokens[t] = true
	return t, nil
}

func (s *Store) ValidToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[token]
}

// Payments filtra por status; vazio retorna todos.
func (s *Store) Payments(status string) []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Payment{}
	for _, p := range s.payments {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out
}

// SetPaymentStatus transiciona o pagamento e propaga pros palpites.
func (s *Store) SetPaymentStatus(id int64, status string) (*Payment, error) {
	if status != "validated" && status != "rejected" {
		return nil, ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.payments {
		if p.ID != id {
			continue
		}
		p.Status = status
		for _, b := range s.bets {
			if b.PaymentID == id {
				b.PaymentStatus = status
			}
		}
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *Store) Bets() []Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Bet{}
	for _, b := range s.bets {
		out = append(out, *b)
	}
	return out
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Categories: []CategoryStats{}}
	st.Overall.TotalBets = len(s.bets)
	st.Overall.TotalPayments = len(s.payments)
	for _, p := range s.payments {
		switch p.Status {
		case "validated":
			st.Overall.ValidatedAmount += p.TotalAmount
		case "pending":
			st.Overall.PendingCount++
			st.Overall.PendingAmount += p.TotalAmount
		}
	}
	for _, c := range s.categories {
		pot, total := s.categoryTotalsLocked(c.ID)
		st.Categories = append(st.Categories, CategoryStats{
			ID:        c.ID,
			Name:      c.Name,
			TotalBets: total,
			PotAmount: pot,
		})
	}
	return st
}

// ActiveImages é o slideshow público, na ordem de exibição.
func (s *Store) ActiveImages() []Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Image{}
	for _, img := range s.images {
		if img.IsActive {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// Images é a lista admin completa, incluindo inativas.
func (s *Store) Images() []Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Image{}
	for _, img := range s.images {
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (s *Store) AddImage(url, caption string, displayOrder int) Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextImageID++
	img := &Image{
		ID:           s.nextImageID,
		ImageURL:     url,
		Caption:      caption,
		DisplayOrder: displayOrder,
		IsActive:     true,
	}
	s.images = append(s.images, img)
	return *img
}

func (s *Store) UpdateImage(in Image) (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, img := range s.images {
		if img.ID == in.ID {
			img.Caption = in.Caption
			img.DisplayOrder = in.DisplayOrder
			img.IsActive = in.IsActive
			if in.ImageURL != "" {
				img.ImageURL = in.ImageURL
			}
			cp := *img
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) DeleteImage(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, img := range s.images {
		if img.ID == id {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
