package scan

import (
	"context"
	"errors"
	"sync"

	"github.com/lockwhz/retroscan/models"
)

// Scanner define uma interface para executar o scanner contra um alvo.
type Scanner interface {
	Invoke(ctx context.Context, target string) (*models.ScanResult, error)
}

// ErrScanInterrupted indica que o contexto terminou antes do processo sair.
var ErrScanInterrupted = errors.New("scan interrompido")

// LaunchError é a única falha do scanner: o processo não pôde ser iniciado.
// A mensagem é exatamente o texto do erro do sistema operacional.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// FakeScanner devolve respostas fixas e guarda os alvos recebidos.
type FakeScanner struct {
	Output    string
	ErrStr    string // Vai para o campo Error (stderr).
	LaunchErr string // Quando preenchido, Invoke falha com LaunchError.

	mu      sync.Mutex
	targets []string
}

var _ Scanner = &FakeScanner{}

func (f *FakeScanner) Invoke(ctx context.Context, target string) (*models.ScanResult, error) {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()

	if f.LaunchErr != "" {
		return nil, &LaunchError{Path: "fake", Err: errors.New(f.LaunchErr)}
	}
	return &models.ScanResult{Output: f.Output, Error: f.ErrStr}, nil
}

// Targets devolve uma cópia dos alvos recebidos até agora.
func (f *FakeScanner) Targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.targets...)
}
