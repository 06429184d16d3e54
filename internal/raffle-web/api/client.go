package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUnauthorized sinaliza 401 do backend. O token já foi descartado quando
// esse erro é retornado; cabe ao handler redirecionar pro login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError é a falha estruturada de qualquer chamada ao backend.
type APIError struct {
	StatusCode int
	Message    string // mensagem do servidor, se houver
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("raffle api: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("raffle api: http %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// TokenSource fornece o bearer token corrente e permite descartá-lo.
// Implementado pelo session.Holder; injetado pra manter o client testável.
type TokenSource interface {
	Token() string
	Clear()
}

// Client encapsula todas as chamadas ao backend REST da rifa.
// Toda chamada anexa o bearer token quando presente; 401 limpa o token
// como efeito colateral, de forma uniforme (política transversal).
type Client struct {
	BaseURL string // inclui /api
	HTTP    *http.Client
	Tokens  TokenSource
}

func New(base string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Tokens:  tokens,
	}
}

// do executa a requisição, aplica o token e trata a resposta.
// out == nil descarta o corpo de sucesso.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Tokens != nil {
		if t := c.Tokens.Token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		if c.Tokens != nil {
			c.Tokens.Clear()
		}
		return &APIError{StatusCode: res.StatusCode, Message: serverMessage(res.Body)}
	}
	if res.StatusCode >= 300 {
		return &APIError{StatusCode: res.StatusCode, Message: serverMessage(res.Body)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

// serverMessage extrai {"error": "..."} do corpo de falha, se existir.
func serverMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

// ---- chamadas públicas ----

func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out)
	return out, err
}

func (c *Client) GetSlideshow(ctx context.Context) ([]SlideshowImage, error) {
	var out []SlideshowImage
	err := c.doJSON(ctx, http.MethodGet, "/slideshow", nil, &out)
	return out, err
}

// SubmitBets envia o lote completo de palpites mais os dados de contato.
// O backend trata o lote como tudo-ou-nada; não há sucesso parcial.
func (c *Client) SubmitBets(ctx context.Context, req SubmitBetsRequest) (*SubmitBetsResponse, error) {
	var out SubmitBetsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/bets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- chamadas admin ----

func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/admin/login", LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetPayments filtra por status ("pending", "validated" ou "" pra todos).
func (c *Client) GetPayments(ctx context.Context, status string) ([]Payment, error) {
	var out []Payment
	err := c.doJSON(ctx, http.MethodGet, "/admin/payments?status="+url.QueryEscape(status), nil, &out)
	return out, err
}

// ValidatePayment muda o status de um pagamento ("validated" | "rejected").
func (c *Client) ValidatePayment(ctx context.Context, id int64, status string) (*Payment, error) {
	var out Payment
	path := "/admin/payments/" + strconv.FormatInt(id, 10) + "/validate"
	if err := c.doJSON(ctx, http.MethodPut, path, map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBets(ctx context.Context) ([]Bet, error) {
	var out []Bet
	err := c.doJSON(ctx, http.MethodGet, "/admin/bets", nil, &out)
	return out, err
}

func (c *Client) GetAdminStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetImages(ctx context.Context) ([]SlideshowImage, error) {
	var out []SlideshowImage
	err := c.doJSON(ctx, http.MethodGet, "/admin/images", nil, &out)
	return out, err
}

// UploadImage envia multipart com o arquivo, caption e display_order.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader, caption string, displayOrder int) (*SlideshowImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	_ = mw.WriteField("caption", caption)
	_ = mw.WriteField("display_order", strconv.Itoa(displayOrder))
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out SlideshowImage
	if err := c.do(ctx, http.MethodPost, "/admin/images", mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateImage envia o registro completo (o toggle de ativo manda tudo).
func (c *Client) UpdateImage(ctx context.Context, img SlideshowImage) (*SlideshowImage, error) {
	var out SlideshowImage
	path := "/admin/images/" + strconv.FormatInt(img.ID, 10)
	if err := c.doJSON(ctx, http.MethodPut, path, img, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteImage(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/admin/images/"+strconv.FormatInt(id, 10), "", nil, nil)
}
