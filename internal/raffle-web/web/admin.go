package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
)

// requireAuth protege as views admin; anônimo vai pro login.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sess.Authenticated() {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// unauthorized trata o 401 global: o client já limpou o token, aqui só
// resta mandar o navegador pro login. Nunca vira erro inline.
func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return true
	}
	return false
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", loginData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	token, err := s.api.AdminLogin(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		msg := "Login failed"
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.render(w, "login", loginData{Error: msg})
		return
	}
	s.sess.Login(r.Context(), token)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sess.Logout(r.Context())
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// dashboard busca pagamentos (filtrados por status) e estatísticas juntos,
// a cada carga e a cada troca de filtro.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	filter := "pending"
	if r.URL.Query().Has("status") {
		filter = r.URL.Query().Get("status")
	}

	data := dashboardData{Filter: filter}

	payments, err := s.api.GetPayments(r.Context(), filter)
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("payments fetch failed", zap.Error(err))
		data.Error = "Failed to load payments"
	}
	data.Payments = payments

	stats, err := s.api.GetAdminStats(r.Context())
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("stats fetch failed", zap.Error(err))
	}
	data.Stats = stats

	s.render(w, "dashboard", data)
}

// validatePayment emite a mudança de status e volta pro dashboard, que
// rebusca a lista inteira (sem atualização otimista local).
func (s *Server) validatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid payment id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	status := r.PostFormValue("status")
	if status != "validated" && status != "rejected" {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if _, err := s.api.ValidatePayment(r.Context(), id, status); err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Error("validate payment failed", zap.Int64("payment_id", id), zap.Error(err))
	}

	back := "/admin/dashboard"
	if f := r.PostFormValue("filter"); f != "" || r.PostForm.Has("filter") {
		back += "?status=" + url.QueryEscape(f)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// betsPage busca a lista completa uma vez; o filtro por status é puro,
// sem nova chamada por troca de filtro.
func (s *Server) betsPage(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "all"
	}

	data := betsData{Filter: filter}

	bets, err := s.api.GetBets(r.Context())
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("bets fetch failed", zap.Error(err))
		data.Error = "Failed to load bets"
	}

	data.CountAll = len(bets)
	data.CountValidated = len(filterBets(bets, "validated"))
	data.CountPending = len(filterBets(bets, "pending"))
	data.Bets = filterBets(bets, filter)

	s.render(w, "bets", data)
}

// filterBets aplica o filtro de status do lado do cliente.
func filterBets(bets []api.Bet, filter string) []api.Bet {
	if filter == "" || filter == "all" {
		return bets
	}
	var out []api.Bet
	for _, b := range bets {
		if b.PaymentStatus == filter {
			out = append(out, b)
		}
	}
	return out
}

func (s *Server) imagesPage(w http.ResponseWriter, r *http.Request) {
	data := imagesData{Error: r.URL.Query().Get("error")}

	images, err := s.api.GetImages(r.Context())
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("images fetch failed", zap.Error(err))
		if data.Error == "" {
			data.Error = "Failed to load images"
		}
	}
	data.Images = images

	s.render(w, "images", data)
}

// uploadImage exige um arquivo selecionado; sem arquivo, nenhuma chamada
// de rede é feita. A ordem de exibição é sempre o fim da lista atual.
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Redirect(w, r, "/admin/images?error="+url.QueryEscape("Please select an image"), http.StatusSeeOther)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Redirect(w, r, "/admin/images?error="+url.QueryEscape("Please select an image"), http.StatusSeeOther)
		return
	}
	defer file.Close()

	images, err := s.api.GetImages(r.Context())
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("images fetch failed", zap.Error(err))
	}

	caption := r.FormValue("caption")
	if _, err := s.api.UploadImage(r.Context(), header.Filename, file, caption, len(images)); err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Error("image upload failed", zap.Error(err))
		http.Redirect(w, r, "/admin/images?error="+url.QueryEscape("Failed to upload image"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}

// toggleImage alterna o flag ativo enviando o registro completo.
func (s *Server) toggleImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid image id", http.StatusBadRequest)
		return
	}

	images, err := s.api.GetImages(r.Context())
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Warn("images fetch failed", zap.Error(err))
		http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
		return
	}

	for _, img := range images {
		if img.ID == id {
			img.IsActive = !img.IsActive
			if _, err := s.api.UpdateImage(r.Context(), img); err != nil {
				if s.unauthorized(w, r, err) {
					return
				}
				s.log.Error("image update failed", zap.Int64("image_id", id), zap.Error(err))
			}
			break
		}
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}

// deleteImage remove a foto; a confirmação interativa acontece na página.
func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid image id", http.StatusBadRequest)
		return
	}

	if err := s.api.DeleteImage(r.Context(), id); err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.log.Error("image delete failed", zap.Int64("image_id", id), zap.Error(err))
	}

	http.Redirect(w, r, "/admin/images", http.StatusSeeOther)
}
