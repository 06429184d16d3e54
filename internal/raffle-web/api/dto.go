package api

// Tipos espelham o contrato JSON do backend da rifa (base /api).

// Category é uma categoria de palpite (data do nascimento, peso, etc).
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"` // "date" | "lbs-oz" | "inches" | "cm" | "letter" | "time" | "free-text"
	CurrentPot  float64 `json:"current_pot"`
	TotalBets   int     `json:"total_bets"`
}

// SlideshowImage é uma foto do slideshow da home.
type SlideshowImage struct {
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

// SubmitBetsRequest é o lote atômico enviado em POST /bets.
type SubmitBetsRequest struct {
	User UserInfo   `json:"user"`
	Bets []BetInput `json:"bets"`
}

// SubmitBetsResponse carrega as instruções de pagamento manuais.
type SubmitBetsResponse struct {
	PaymentID     int64   `json:"payment_id"`
	TotalAmount   float64 `json:"total_amount"`
	VenmoUsername string  `json:"venmo_username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Payment é um lote submetido, liquidado manualmente fora do sistema.
// Status: "pending" | "validated" | "rejected"
type Payment struct {
	ID          int64   `json:"id"`
	UserName    string  `json:"user_name"`
	UserEmail   string  `json:"user_email"`
	TotalAmount float64 `json:"total_amount"`
	BetCount    int     `json:"bet_count"`
	Status      string  `json:"status"`
}

// Bet é um palpite já submetido, somente leitura na visão admin.
type Bet struct {
	ID            int64   `json:"id"`
	CategoryName  string  `json:"category_name"`
	GuessValue    string  `json:"guess_value"`
	UserName      string  `json:"user_name"`
	UserEmail     string  `json:"user_email"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
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
