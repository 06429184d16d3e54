package events

// Evento publicado no tópico "raffle_order_submitted" após o backend aceitar
// um lote de palpites. Consumido pelo order-notify-worker.
type OrderSubmitted struct {
	PaymentID  int64  `json:"payment_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	BetCount   int    `json:"bet_count"`
	TotalCents int64  `json:"total_cents"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}
