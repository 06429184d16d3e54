package topics

const (
	// Orders
	OrderSubmitted = "raffle_order_submitted"

	// DLQs
	OrderSubmittedDLQ = "raffle_order_submitted_dlq"
)
