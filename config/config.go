package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	NmapPath          string        // Caminho ou nome do binário do nmap.
	NmapTimeout       time.Duration // Limite por scan; zero desativa.
	LogLevel          string        // debug|info|warn|error.
	LogPath           string        // Arquivo de log rotacionado.
	BridgeAddr        string        // Endereço da ponte HTTP com o front-end.
	BridgeCORSOrigins []string      // Origens aceitas pela ponte.
	BridgeTokenSecret string        // Nome do segredo com o token da ponte (opcional).
	SQSQueueURL       string        // Fila de requisições de scan.
	SQSReplyQueueURL  string        // Fila de respostas (opcional).
	AWSRegion         string        // Região AWS; vazio usa a cadeia padrão do SDK.
	SQSWaitSeconds    int32         // Long polling da SQS.
}

const (
	DefaultNmapPath   = "nmap"
	DefaultLogLevel   = "info"
	DefaultLogPath    = "logs/retroscan.log"
	DefaultBridgeAddr = "127.0.0.1:1421"
	DefaultWaitSecs   = 20
)

var DefaultCORSOrigins = []string{"tauri://localhost", "http://localhost:1420"}

// Load lê o arquivo .env (se existir) e depois as variáveis de ambiente.
// Variáveis já definidas no ambiente têm prioridade sobre o arquivo.
func Load() (Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("erro ao carregar %s: %w", envFile, err)
	}

	timeout, err := parseDuration(os.Getenv("NMAP_TIMEOUT"))
	if err != nil {
		return Config{}, fmt.Errorf("NMAP_TIMEOUT inválido: %w", err)
	}

	return Config{
		NmapPath:          getEnv("NMAP_PATH", DefaultNmapPath),
		NmapTimeout:       timeout,
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogPath:           getEnv("LOG_PATH", DefaultLogPath),
		BridgeAddr:        getEnv("BRIDGE_ADDR", DefaultBridgeAddr),
		BridgeCORSOrigins: splitList(getEnv("BRIDGE_CORS_ORIGINS", strings.Join(DefaultCORSOrigins, ","))),
		BridgeTokenSecret: os.Getenv("BRIDGE_TOKEN_SECRET"),
		SQSQueueURL:       os.Getenv("SQS_QUEUE_URL"),
		SQSReplyQueueURL:  os.Getenv("SQS_REPLY_QUEUE_URL"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		SQSWaitSeconds:    int32(getEnvAsInt("SQS_WAIT_SECONDS", DefaultWaitSecs)),
	}, nil
}

// Validate confere o que vale para todos os modos.
func (c Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("nível de log inválido %q. Valores aceitos: debug, info, warn, error", c.LogLevel)
	}
	if c.NmapTimeout < 0 {
		return fmt.Errorf("NMAP_TIMEOUT não pode ser negativo, recebido %s", c.NmapTimeout)
	}
	if c.NmapPath == "" {
		return fmt.Errorf("NMAP_PATH vazio")
	}
	return nil
}

// ValidateWorker exige a fila de entrada e um long polling dentro do limite da SQS.
func (c Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SQSQueueURL == "" {
		return fmt.Errorf("SQS_QUEUE_URL é obrigatório no modo worker")
	}
	if c.SQSWaitSeconds < 0 || c.SQSWaitSeconds > 20 {
		return fmt.Errorf("SQS_WAIT_SECONDS deve estar entre 0 e 20, recebido %d", c.SQSWaitSeconds)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseDuration(val string) (time.Duration, error) {
	if val == "" || val == "0" {
		return 0, nil
	}
	return time.ParseDuration(val)
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
