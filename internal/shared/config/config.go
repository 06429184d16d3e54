package config

import (
	"os"

	ctopics "github.com/mjones/baby-raffle-web/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, URLs e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "raffle-web", "raffle-api-simulator", ...

	RaffleAPIURL string // base do backend REST (inclui /api)
	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos
	TopicOrderSubmitted    string
	TopicOrderSubmittedDLQ string

	// Cookie de sessão do visitante (carrinho de apostas)
	SessionCookie string

	// Simulator
	AdminUsername string
	AdminPassword string
	VenmoUsername string
	UploadDir     string

	// Portas do serviço atual
	HTTPPort    string // Porta pública (páginas / API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults para cada serviço
// Resolve portas e tópicos conforme o SERVICE_NAME
func Load() Config {
	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		RaffleAPIURL: getEnv("RAFFLE_API_URL", "http://localhost:8080/api"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicOrderSubmitted:    getEnv("KAFKA_TOPIC_ORDER_SUBMITTED", ctopics.OrderSubmitted),
		TopicOrderSubmittedDLQ: getEnv("KAFKA_TOPIC_ORDER_SUBMITTED_DLQ", ctopics.OrderSubmittedDLQ),

		SessionCookie: getEnv("SESSION_COOKIE", "raffle_sid"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		VenmoUsername: getEnv("VENMO_USERNAME", "@baby-raffle"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "raffle-web":
		cfg.HTTPPort = getEnv("HTTP_PORT_WEB", "8084")
		cfg.MetricsPort = getEnv("METRICS_PORT_WEB", "9091")
	case "raffle-api-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SIMULATOR", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT_SIMULATOR", "9092")
	case "order-notify-worker":
		cfg.HTTPPort = getEnv("HTTP_PORT_WORKER", "") // worker não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_WORKER", "9093")
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8084")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9091")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
