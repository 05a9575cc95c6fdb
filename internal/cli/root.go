// Package cli monta os comandos cobra do retroscan.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsSQS "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"

	"github.com/lockwhz/retroscan/config"
	"github.com/lockwhz/retroscan/internal/commands"
	"github.com/lockwhz/retroscan/internal/logger"
	"github.com/lockwhz/retroscan/internal/metrics"
	"github.com/lockwhz/retroscan/internal/scan"
	"github.com/lockwhz/retroscan/internal/secrets"
	"github.com/lockwhz/retroscan/internal/services"
	"github.com/lockwhz/retroscan/internal/transport"
)

// app guarda o que os subcomandos compartilham depois do PersistentPreRunE.
type app struct {
	cfg      config.Config
	registry *commands.Registry
	stdout   io.Writer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stdout)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	root := &cobra.Command{
		Use:           "retroscan",
		Short:         "Backend do RetroScan: executa o nmap para o front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(a.scanCmd(), a.serveCmd(), a.workerCmd())
	return root
}

// Execute roda o comando raiz e devolve o código de saída do processo.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogPath); err != nil {
		return err
	}
	a.cfg = cfg

	scanner := &scan.NmapScanner{NmapPath: cfg.NmapPath, Timeout: cfg.NmapTimeout}
	a.registry = commands.NewRegistry(scanner)
	return nil
}

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <target>",
		Short: "Executa o nmap uma vez e imprime o resultado em JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal(commands.RunNmapScanArgs{Target: args[0]})
			if err != nil {
				return err
			}
			out, err := a.registry.Invoke(cmd.Context(), commands.RunNmapScan, raw)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe a ponte HTTP usada pelo front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := secrets.BridgeToken(&secrets.DefaultSecretsManager{}, a.cfg.BridgeTokenSecret)
			if err != nil {
				return err
			}
			srv := transport.NewServer(transport.Config{
				Addr:        a.cfg.BridgeAddr,
				CORSOrigins: a.cfg.BridgeCORSOrigins,
				Token:       token,
				Metrics:     metrics.Registry,
			}, a.registry)
			return srv.Start(cmd.Context())
		},
	}
}

func (a *app) workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consome requisições de scan da fila SQS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateWorker(); err != nil {
				return err
			}
			ctx := cmd.Context()

			var opts []func(*awsconfig.LoadOptions) error
			if a.cfg.AWSRegion != "" {
				opts = append(opts, awsconfig.WithRegion(a.cfg.AWSRegion))
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
			if err != nil {
				return fmt.Errorf("erro ao carregar configurações AWS: %w", err)
			}
			sqsClient := awsSQS.NewFromConfig(awsCfg)

			producer := &services.SQSProducer{
				Client:      sqsClient,
				QueueURL:    a.cfg.SQSQueueURL,
				WaitSeconds: a.cfg.SQSWaitSeconds,
			}
			consumer := &services.JobConsumer{
				Client:        sqsClient,
				QueueURL:      a.cfg.SQSQueueURL,
				ReplyQueueURL: a.cfg.SQSReplyQueueURL,
				Commands:      a.registry,
			}

			logger.Log.Infof("Worker: consumindo %s", a.cfg.SQSQueueURL)
			consumer.Start(ctx, producer.Start(ctx))
			logger.Log.Info("Worker: encerrado")
			return nil
		},
	}
}
