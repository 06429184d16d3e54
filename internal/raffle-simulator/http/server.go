package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/raffle-simulator/store"
)

var apiRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "raffle_simulator_requests_total",
	Help: "Requisições atendidas pelo simulador, por rota",
}, []string{"method", "route"})

func init() {
	prometheus.MustRegister(apiRequests)
}

// API implementa o contrato REST do backend da rifa, em memória, pra
// desenvolvimento local do frontend. Não é o backend de produção.
type API struct {
	Log       *zap.Logger
	Store     *store.Store
	UploadDir string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(countRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", a.listCategories)
		r.Get("/slideshow", a.slideshow)
		r.Post("/bets", a.submitBets)
		r.Post("/admin/login", a.login)

		r.Group(func(r chi.Router) {
			r.Use(a.requireBearer)
			r.Get("/admin/payments", a.listPayments)
			r.Put("/admin/payments/{id}/validate", a.validatePayment)
			r.Get("/admin/bets", a.listBets)
			r.Get("/admin/stats", a.stats)
			r.Get("/admin/images", a.listImages)
			r.Post("/admin/images", a.uploadImage)
			r.Put("/admin/images/{id}", a.updateImage)
			r.Delete("/admin/images/{id}", a.deleteImage)
		})
	})

	// arquivos enviados pelo admin
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.UploadDir))))

	return r
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		apiRequests.WithLabelValues(r.Method, chi.RouteContext(r.Context()).RoutePattern()).Inc()
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireBearer valida o token das rotas admin; 401 é o único sinal de
// sessão expirada que o frontend conhece.
func (a *API) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token == auth || !a.Store.ValidToken(token) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.Categories())
}

func (a *API) slideshow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.ActiveImages())
}

func (a *API) submitBets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User store.UserInfo   `json:"user"`
		Bets []store.BetInput `json:"bets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	p, err := a.Store.CreateOrder(req.User, req.Bets)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.Log.Info("order created",
		zap.Int64("payment_id", p.ID),
		zap.Int("bet_count", p.BetCount),
		zap.Float64("total_amount", p.TotalAmount),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"payment_id":     p.ID,
		"total_amount":   p.TotalAmount,
		"venmo_username": a.Store.VenmoUsername(),
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	token, err := a.Store.IssueToken(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) listPayments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.Payments(r.URL.Query().Get("status")))
}

func (a *API) validatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	p, err := a.Store.SetPaymentStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) listBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.Bets())
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.Stats())
}

func (a *API) listImages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Store.Images())
}

// uploadImage grava o arquivo no UploadDir e serve em /uploads/.
func (a *API) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(a.UploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "upload dir")
		return
	}
	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(a.UploadDir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save file")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "save file")
		return
	}

	displayOrder, _ := strconv.Atoi(r.FormValue("display_order"))
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := scheme + "://" + r.Host + "/uploads/" + name

	img := a.Store.AddImage(url, r.FormValue("caption"), displayOrder)
	a.Log.Info("image uploaded", zap.Int64("image_id", img.ID), zap.String("url", url))
	writeJSON(w, http.StatusOK, img)
}

func (a *API) updateImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}
	var img store.Image
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	img.ID = id

	out, err := a.Store.UpdateImage(img)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}
	if err := a.Store.DeleteImage(id); err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
