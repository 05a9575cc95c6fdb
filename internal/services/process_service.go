package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lockwhz/retroscan/internal/commands"
	"github.com/lockwhz/retroscan/internal/logger"
	"github.com/lockwhz/retroscan/internal/scan"
	"github.com/lockwhz/retroscan/models"
)

// Invoker é o registro de comandos visto pelo worker.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// ProcessJob executa o comando run_nmap_scan para um job e monta a resposta.
// Falha ao iniciar o nmap vira resposta com Failure; só a interrupção do worker devolve erro.
func ProcessJob(ctx context.Context, job *models.ScanJob, invoker Invoker) (*models.ScanReply, error) {
	start := time.Now()
	logger.Log.Debugf("ProcessService: iniciando job %s (alvo %q)", job.ScanID, job.Target)

	args, err := json.Marshal(commands.RunNmapScanArgs{Target: job.Target})
	if err != nil {
		return nil, fmt.Errorf("ProcessService: erro ao montar argumentos: %w", err)
	}

	reply := &models.ScanReply{ScanID: job.ScanID, Target: job.Target}
	out, err := invoker.Invoke(ctx, commands.RunNmapScan, args)
	switch {
	case err == nil:
		res, ok := out.(*models.ScanResult)
		if !ok {
			return nil, fmt.Errorf("ProcessService: resposta inesperada do comando: %T", out)
		}
		reply.Output = res.Output
		reply.Error = res.Error
	case errors.Is(err, scan.ErrScanInterrupted) && ctx.Err() != nil:
		return nil, fmt.Errorf("ProcessService: job %s interrompido: %w", job.ScanID, err)
	default:
		logger.Log.Warnf("ProcessService: job %s sem resultado: %v", job.ScanID, err)
		reply.Failure = err.Error()
	}

	reply.FinishedAt = time.Now().UTC()
	logger.Log.Debugf("ProcessService: job %s concluído em %d ms", job.ScanID, time.Since(start).Milliseconds())
	return reply, nil
}
