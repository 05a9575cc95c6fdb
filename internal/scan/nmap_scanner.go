package scan

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/lockwhz/retroscan/internal/logger"
	"github.com/lockwhz/retroscan/internal/metrics"
	"github.com/lockwhz/retroscan/models"
)

// DefaultNmapPath é resolvido no PATH do sistema.
const DefaultNmapPath = "nmap"

// waitDelay limita a espera pelos pipes depois que o contexto mata o processo.
const waitDelay = 2 * time.Second

type NmapScanner struct {
	NmapPath string
	Timeout  time.Duration // Zero: sem limite, o scan bloqueia até o nmap sair.
}

var _ Scanner = &NmapScanner{}

// Invoke roda `nmap <target>` e devolve stdout/stderr, qualquer que seja o código de saída.
// O target passa direto para o processo, sem shell e sem validação.
func (s *NmapScanner) Invoke(ctx context.Context, target string) (*models.ScanResult, error) {
	start := time.Now()
	defer logger.Trace("NmapScanner.Invoke", start)

	path := s.NmapPath
	if path == "" {
		path = DefaultNmapPath
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		metrics.ObserveScan(metrics.OutcomeInterrupted, -1, 0)
		return nil, fmt.Errorf("%w: %w", ErrScanInterrupted, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, target)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	logger.Log.Debugw("Scanner: iniciando processo", "path", path, "target", target)
	if err := cmd.Start(); err != nil {
		metrics.ObserveScan(metrics.OutcomeLaunchFailed, -1, time.Since(start))
		logger.Log.Errorw("Scanner: falha ao iniciar o processo", "path", path, "error", err)
		return nil, &LaunchError{Path: path, Err: err}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	exitCode := cmd.ProcessState.ExitCode()

	if waitErr != nil && ctx.Err() != nil {
		metrics.ObserveScan(metrics.OutcomeInterrupted, exitCode, elapsed)
		logger.Log.Warnw("Scanner: processo interrompido", "target", target, "duration", elapsed.String())
		return nil, fmt.Errorf("%w: %w", ErrScanInterrupted, ctx.Err())
	}
	if waitErr != nil && exitCode == -1 {
		logger.Log.Warnw("Scanner: processo terminou de forma anormal", "target", target, "error", waitErr)
	}

	metrics.ObserveScan(metrics.OutcomeCompleted, exitCode, elapsed)
	logger.Log.Infow("Scanner: processo finalizado",
		"target", target,
		"exit_code", exitCode,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
		"duration", elapsed.String(),
	)

	return &models.ScanResult{
		Output: Decode(stdout.Bytes()),
		Error:  Decode(stderr.Bytes()),
	}, nil
}
