package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config contém as configurações da aplicação
type Config struct {
	HTTPAddr string // Endereço do servidor HTTP
	LogLevel string // Nível de log (debug, info, warn, error)

	DBDriver   string // Driver do banco: postgres ou sqlite
	DBHost     string // Host do banco de dados
	DBPort     string // Porta do banco de dados
	DBUser     string // Usuário do banco de dados
	DBPassword string // Senha do banco de dados
	DBName     string // Nome do banco de dados
	SQLitePath string // Caminho do arquivo SQLite (modo sqlite)

	SchedulerCron string // Expressão cron da geração diária
	SchedulerTZ   string // Fuso horário do agendador

	HolidayAPIURL   string        // URL base da API de feriados nacionais
	HolidayCacheTTL time.Duration // Validade do cache de feriados por ano

	SMTPHost           string // Host SMTP para notificações
	SMTPPort           int    // Porta SMTP
	SMTPUser           string // Usuário SMTP
	SMTPPass           string // Senha SMTP
	EmailEnabled       bool   // Habilita envio de notificações por email
	NotifyEmail        string // Destinatário das notificações de geração
	InsecureSkipVerify bool   // Ignora verificação TLS do SMTP (apenas dev)
}

// LoadConfig carrega a configuração a partir do arquivo .env e variáveis de ambiente
func LoadConfig() (*Config, error) {
	// Carrega variáveis de ambiente do arquivo .env, se existir
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Arquivo .env não encontrado")
	}

	// Validade do cache de feriados (padrão: 24 horas)
	cacheTTL, err := time.ParseDuration(os.Getenv("HOLIDAY_CACHE_TTL"))
	if err != nil {
		cacheTTL = 24 * time.Hour
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587 // Porta SMTP padrão com STARTTLS
	}

	config := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "sistema_fiscal"),
		SQLitePath: getEnv("SQLITE_PATH", "sistema_fiscal.db"),

		// Uma vez por dia, às 06:00 no fuso configurado
		SchedulerCron: getEnv("SCHEDULER_CRON", "0 6 * * *"),
		SchedulerTZ:   getEnv("SCHEDULER_TZ", "America/Sao_Paulo"),

		HolidayAPIURL:   getEnv("HOLIDAY_API_URL", "https://brasilapi.com.br/api/feriados/v1"),
		HolidayCacheTTL: cacheTTL,

		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           smtpPort,
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		EmailEnabled:       os.Getenv("EMAIL_SENDER_ENABLED") == "true",
		NotifyEmail:        getEnv("NOTIFY_EMAIL", ""),
		InsecureSkipVerify: os.Getenv("INSECURE_SKIP_VERIFY") == "true",
	}

	return config, nil
}

// getEnv obtém o valor de uma variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
