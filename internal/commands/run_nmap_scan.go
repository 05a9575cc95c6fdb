package commands

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/lockwhz/retroscan/internal/scan"
	"github.com/lockwhz/retroscan/models"
)

// RunNmapScan é o único comando exposto ao front-end.
const RunNmapScan = "run_nmap_scan"

type RunNmapScanArgs struct {
	Target string `json:"target"`
}

// NewRegistry devolve um registro só com o comando run_nmap_scan.
func NewRegistry(scanner scan.Scanner) *Registry {
	r := NewEmptyRegistry()
	r.Register(RunNmapScan, runNmapScanHandler(scanner))
	return r
}

func runNmapScanHandler(scanner scan.Scanner) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args RunNmapScanArgs
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, &ArgsError{Command: RunNmapScan, Err: err}
			}
		}
		return ScanTarget(ctx, scanner, args.Target)
	}
}

// ScanTarget chama o scanner e converte a falha para o texto que o front-end exibe.
func ScanTarget(ctx context.Context, scanner scan.Scanner, target string) (*models.ScanResult, error) {
	res, err := scanner.Invoke(ctx, target)
	if err != nil {
		return nil, &CommandError{Command: RunNmapScan, Message: err.Error(), Err: err}
	}
	return res, nil
}
