package secrets

import (
	"fmt"
	"os"
)

// SecretsManager define a interface para recuperar segredos.
type SecretsManager interface {
	GetSecret(secretName string) (string, error)
}

// DefaultSecretsManager lê segredos das variáveis de ambiente.
type DefaultSecretsManager struct{}

func (s *DefaultSecretsManager) GetSecret(secretName string) (string, error) {
	secret := os.Getenv(secretName)
	if secret == "" {
		return "", fmt.Errorf("segredo %s não encontrado", secretName)
	}
	return secret, nil
}

// StaticSecretsManager guarda os segredos em memória; usado em testes.
type StaticSecretsManager map[string]string

func (s StaticSecretsManager) GetSecret(secretName string) (string, error) {
	secret, ok := s[secretName]
	if !ok || secret == "" {
		return "", fmt.Errorf("segredo %s não encontrado", secretName)
	}
	return secret, nil
}

// BridgeToken resolve o token da ponte HTTP. Sem nome configurado a ponte roda sem autenticação.
func BridgeToken(m SecretsManager, secretName string) (string, error) {
	if secretName == "" {
		return "", nil
	}
	token, err := m.GetSecret(secretName)
	if err != nil {
		return "", fmt.Errorf("token da ponte: %w", err)
	}
	return token, nil
}
