package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/betflow"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/catalog"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/session"
	"github.com/mjones/baby-raffle-web/pkg/contracts/events"
)

// Métricas Prometheus do fluxo de apostas
var (
	ordersSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_orders_submitted_total",
		Help: "Lotes de palpites aceitos pelo backend",
	})
	betsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_bets_submitted_total",
		Help: "Palpites individuais aceitos pelo backend",
	})
)

func init() {
	prometheus.MustRegister(ordersSubmitted, betsSubmitted)
}

// Server renderiza as páginas públicas e admin da rifa. Todo estado de view
// (token admin, carrinho, último pedido) vive aqui; dados de domínio vêm
// sempre do backend via api.Client.
type Server struct {
	log        *zap.Logger
	api        *api.Client
	sess       *session.Holder
	carts      *betflow.Store
	cat        *catalog.Cache // pode ser nil (sem Redis)
	cookieName string
	publ       interface {
		PublishOrderSubmitted(context.Context, events.OrderSubmitted) error
	}
}

func NewServer(
	log *zap.Logger,
	client *api.Client,
	sess *session.Holder,
	carts *betflow.Store,
	cat *catalog.Cache,
	cookieName string,
	publ interface {
		PublishOrderSubmitted(context.Context, events.OrderSubmitted) error
	},
) *Server {
	return &Server{
		log:        log,
		api:        client,
		sess:       sess,
		carts:      carts,
		cat:        cat,
		cookieName: cookieName,
		publ:       publ,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// públicas
	r.Get("/", s.home)
	r.Get("/betting", s.bettingPage)
	r.Post("/betting/add", s.addBet)
	r.Post("/betting/remove", s.removeBet)
	r.Post("/betting/submit", s.submitBets)
	r.Get("/betting/confirm", s.confirmPage)

	// admin
	r.Get("/admin/login", s.loginPage)
	r.Post("/admin/login", s.login)
	r.Post("/admin/logout", s.logout)
	r.Get("/admin/dashboard", s.requireAuth(s.dashboard))
	r.Post("/admin/payments/{id}/validate", s.requireAuth(s.validatePayment))
	r.Get("/admin/bets", s.requireAuth(s.betsPage))
	r.Get("/admin/images", s.requireAuth(s.imagesPage))
	r.Post("/admin/images", s.requireAuth(s.uploadImage))
	r.Post("/admin/images/{id}/toggle", s.requireAuth(s.toggleImage))
	r.Post("/admin/images/{id}/delete", s.requireAuth(s.deleteImage))

	return r
}

// visitorCart resolve o carrinho do visitante pelo cookie de sessão,
// emitindo um novo id quando necessário.
func (s *Server) visitorCart(w http.ResponseWriter, r *http.Request) *betflow.Cart {
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		return s.carts.Get(c.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.carts.Get(id)
}

// applyForm sincroniza os campos postados (palpites e contato) no carrinho.
// Só toca no que veio no POST, pra não apagar valores em ações parciais.
func applyForm(cart *betflow.Cart, r *http.Request) {
	view := cart.View()
	for i := range view.Selections {
		key := fmt.Sprintf("guess_%d", i)
		if vals, ok := r.PostForm[key]; ok && len(vals) > 0 {
			cart.UpdateGuess(i, vals[0])
		}
	}
	if _, ok := r.PostForm["name"]; ok {
		cart.SetContact(r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("phone"))
	}
}

// ---- páginas públicas ----

// placeholder padrão quando o backend não tem fotos cadastradas
var fallbackSlides = []api.SlideshowImage{{
	ImageURL: "https://via.placeholder.com/1200x600/ec4899/ffffff?text=Welcome+Baby!",
	Caption:  "Our Greatest Adventure Begins!",
}}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	slides := s.loadSlideshow(r.Context())
	s.render(w, "home", homeData{Slides: slides})
}

func (s *Server) loadSlideshow(ctx context.Context) []api.SlideshowImage {
	var slides []api.SlideshowImage
	if s.cat != nil {
		if ok, _ := s.cat.GetSlideshow(ctx, &slides); ok && len(slides) > 0 {
			return slides
		}
	}
	slides, err := s.api.GetSlideshow(ctx)
	if err != nil {
		s.log.Warn("slideshow fetch failed", zap.Error(err))
		return fallbackSlides
	}
	if len(slides) == 0 {
		return fallbackSlides
	}
	if s.cat != nil {
		_ = s.cat.SetSlideshow(ctx, slides, catalog.DefaultTTL)
	}
	return slides
}

func (s *Server) loadCategories(ctx context.Context) ([]api.Category, error) {
	var cats []api.Category
	if s.cat != nil {
		if ok, _ := s.cat.GetCategories(ctx, &cats); ok && len(cats) > 0 {
			return cats, nil
		}
	}
	cats, err := s.api.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cat != nil {
		_ = s.cat.SetCategories(ctx, cats, catalog.DefaultTTL)
	}
	return cats, nil
}

func (s *Server) bettingPage(w http.ResponseWriter, r *http.Request) {
	cart := s.visitorCart(w, r)
	s.renderBetting(w, r, cart, "")
}

func (s *Server) renderBetting(w http.ResponseWriter, r *http.Request, cart *betflow.Cart, errMsg string) {
	data := bettingData{Error: errMsg, Cart: cart.View()}

	cats, err := s.loadCategories(r.Context())
	if err != nil {
		s.log.Warn("categories fetch failed", zap.Error(err))
		if data.Error == "" {
			data.Error = "Failed to load betting categories"
		}
	}

	// agrupa as seleções por categoria mantendo o índice global,
	// usado pelos campos guess_N e pelos botões de remover
	for _, c := range cats {
		block := categoryBlock{Category: c, Placeholder: guessPlaceholder(c.Unit)}
		for i, sel := range data.Cart.Selections {
			if sel.CategoryID == c.ID {
				block.Bets = append(block.Bets, indexedSelection{Index: i, GuessValue: sel.GuessValue})
			}
		}
		data.Categories = append(data.Categories, block)
	}

	s.render(w, "betting", data)
}

// guessPlaceholder dá o exemplo de palpite conforme a unidade da categoria.
func guessPlaceholder(unit string) string {
	switch unit {
	case "date":
		return "March 15, 2025"
	case "lbs-oz":
		return "7 lbs 8 oz"
	case "inches":
		return "20 inches"
	case "cm":
		return "35 cm"
	case "letter":
		return "S"
	case "time":
		return "3:45 PM"
	}
	return "Your guess"
}

func (s *Server) addBet(w http.ResponseWriter, r *http.Request) {
	cart := s.visitorCart(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	applyForm(cart, r)

	catID, err := strconv.ParseInt(r.PostFormValue("category_id"), 10, 64)
	if err != nil {
		http.Error(w, "category_id required", http.StatusBadRequest)
		return
	}
	cart.Add(catID)
	http.Redirect(w, r, "/betting", http.StatusSeeOther)
}

func (s *Server) removeBet(w http.ResponseWriter, r *http.Request) {
	cart := s.visitorCart(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	applyForm(cart, r)

	index, err := strconv.Atoi(r.PostFormValue("index"))
	if err != nil {
		http.Error(w, "index required", http.StatusBadRequest)
		return
	}
	cart.Remove(index)
	http.Redirect(w, r, "/betting", http.StatusSeeOther)
}

func (s *Server) submitBets(w http.ResponseWriter, r *http.Request) {
	cart := s.visitorCart(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	applyForm(cart, r)

	// validação local: rejeita sem chamada de rede
	if err := cart.Validate(); err != nil {
		s.renderBetting(w, r, cart, err.Error())
		return
	}

	// trava contra duplo submit; o botão também é desabilitado na página
	if err := cart.BeginSubmit(); err != nil {
		s.renderBetting(w, r, cart, err.Error())
		return
	}
	defer cart.EndSubmit()

	req := cart.Request()
	resp, err := s.api.SubmitBets(r.Context(), req)
	if err != nil {
		// seleções preservadas pro visitante tentar de novo
		s.log.Warn("submit bets failed", zap.Error(err))
		s.renderBetting(w, r, cart, submitErrMessage(err))
		return
	}

	cart.Complete(resp)
	ordersSubmitted.Inc()
	betsSubmitted.Add(float64(len(req.Bets)))

	if s.publ != nil {
		evt := events.OrderSubmitted{
			PaymentID:  resp.PaymentID,
			UserName:   req.User.Name,
			UserEmail:  req.User.Email,
			BetCount:   len(req.Bets),
			TotalCents: int64(len(req.Bets)) * betflow.UnitPriceCents,
		}
		if err := s.publ.PublishOrderSubmitted(r.Context(), evt); err != nil {
			// pedido já foi aceito; falha de evento não volta pro visitante
			s.log.Warn("order event publish failed", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/betting/confirm", http.StatusSeeOther)
}

// submitErrMessage prefere a mensagem do servidor; senão, fallback genérico.
func submitErrMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to submit bets"
}

func (s *Server) confirmPage(w http.ResponseWriter, r *http.Request) {
	cart := s.visitorCart(w, r)
	order := cart.LastOrder()
	if order == nil {
		// visitante chegou aqui direto: caminho de volta, não erro
		s.render(w, "confirm_missing", nil)
		return
	}
	s.render(w, "confirm", confirmData{Order: order})
}
