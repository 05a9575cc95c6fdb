// Package commands é o ponto de entrada que o front-end chama pelo nome do comando,
// no mesmo formato do invoke handler da shell desktop.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lockwhz/retroscan/internal/logger"
)

// ErrUnknownCommand é devolvido quando nenhum handler foi registrado com o nome pedido.
var ErrUnknownCommand = errors.New("comando desconhecido")

// Handler recebe os argumentos em JSON e devolve um valor serializável.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// ArgsError indica que os argumentos não puderam ser decodificados.
type ArgsError struct {
	Command string
	Err     error
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("argumentos inválidos para %s: %v", e.Command, e.Err)
}

func (e *ArgsError) Unwrap() error { return e.Err }

// CommandError carrega a mensagem que o front-end mostra ao usuário.
type CommandError struct {
	Command string
	Message string
	Err     error
}

func (e *CommandError) Error() string { return e.Message }

func (e *CommandError) Unwrap() error { return e.Err }

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewEmptyRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register associa um handler a um nome. Registrar o mesmo nome de novo substitui o anterior.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	start := time.Now()
	defer logger.Trace("Registry.Invoke "+name, start)

	out, err := h(ctx, args)
	if err != nil {
		logger.Log.Debugf("Commands: %s falhou: %v", name, err)
		return nil, err
	}
	return out, nil
}
