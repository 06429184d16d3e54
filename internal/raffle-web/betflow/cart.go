package betflow

import (
	"errors"
	"strings"
	"sync"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
)

// Preço fixo por palpite, em centavos.
const UnitPriceCents int64 = 500

// Erros de validação local; reportados inline, sem chamada de rede.
var (
	ErrNoBets         = errors.New("Please add at least one bet")
	ErrEmptyGuess     = errors.New("Please fill in all bet values")
	ErrMissingContact = errors.New("Please fill in your name and email")
	ErrSubmitting     = errors.New("Submission already in progress")
)

// Selection é um palpite em andamento. Vive do momento em que o visitante
// adiciona a aposta até a submissão ou remoção; nunca é persistido.
type Selection struct {
	CategoryID int64
	GuessValue string
}

type Contact struct {
	Name  string
	Email string
	Phone string
}

// Cart guarda o estado do fluxo de apostas de um visitante: seleções,
// contato e o resultado da última submissão aceita.
type Cart struct {
	mu         sync.RWMutex
	selections []Selection
	contact    Contact
	lastOrder  *api.SubmitBetsResponse
	submitting bool
}

// Add anexa uma seleção vazia pra categoria. Sem limite por categoria.
func (c *Cart) Add(categoryID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selections = append(c.selections, Selection{CategoryID: categoryID})
}

// Remove descarta a seleção na posição dada; índices fora da lista são
// ignorados (a lista é recomputada a cada render, não há confusão de id).
func (c *Cart) Remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.selections) {
		return
	}
	c.selections = append(c.selections[:index], c.selections[index+1:]...)
}

// UpdateGuess troca o texto do palpite; validação só acontece no submit.
func (c *Cart) UpdateGuess(index int, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.selections) {
		return
	}
	c.selections[index].GuessValue = value
}

func (c *Cart) SetContact(name, email, phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contact = Contact{Name: name, Email: email, Phone: phone}
}

// TotalCents é derivado da contagem a cada chamada; nunca armazenado.
func (c *Cart) TotalCents() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return UnitPriceCents * int64(len(c.selections))
}

// Validate confere as precondições de submissão: pelo menos uma seleção,
// palpites não vazios após trim e nome/email preenchidos.
func (c *Cart) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.selections) == 0 {
		return ErrNoBets
	}
	for _, s := range c.selections {
		if strings.TrimSpace(s.GuessValue) == "" {
			return ErrEmptyGuess
		}
	}
	if strings.TrimSpace(c.contact.Name) == "" || strings.TrimSpace(c.contact.Email) == "" {
		return ErrMissingContact
	}
	return nil
}

// BeginSubmit marca a submissão em andamento; retorna ErrSubmitting se já
// houver uma em voo (proteção contra duplo clique).
func (c *Cart) BeginSubmit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitting
	}
	c.submitting = true
	return nil
}

func (c *Cart) EndSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
}

// Request monta o lote atômico enviado ao backend.
func (c *Cart) Request() api.SubmitBetsRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	req := api.SubmitBetsRequest{
		User: api.UserInfo{
			Name:  strings.TrimSpace(c.contact.Name),
			Email: strings.TrimSpace(c.contact.Email),
			Phone: strings.TrimSpace(c.contact.Phone),
		},
	}
	for _, s := range c.selections {
		req.Bets = append(req.Bets, api.BetInput{
			CategoryID: s.CategoryID,
			GuessValue: strings.TrimSpace(s.GuessValue),
		})
	}
	return req
}

// Complete registra o resultado aceito e esvazia as seleções.
func (c *Cart) Complete(resp *api.SubmitBetsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastOrder = resp
	c.selections = nil
	c.contact = Contact{}
}

// LastOrder é a informação de pagamento mostrada na confirmação; nil quando
// o visitante nunca submeteu nada.
func (c *Cart) LastOrder() *api.SubmitBetsResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastOrder
}

// View é uma cópia imutável pro render das páginas.
type View struct {
	Selections []Selection
	Contact    Contact
	TotalCents int64
	Submitting bool
}

func (c *Cart) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v := View{
		Contact:    c.contact,
		TotalCents: UnitPriceCents * int64(len(c.selections)),
		Submitting: c.submitting,
	}
	v.Selections = append(v.Selections, c.selections...)
	return v
}
