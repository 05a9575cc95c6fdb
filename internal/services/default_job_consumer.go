package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/lockwhz/retroscan/internal/logger"
	"github.com/lockwhz/retroscan/models"
)

// JobConsumer processa os jobs um de cada vez, na ordem em que chegam.
type JobConsumer struct {
	Client        SQSAPI
	QueueURL      string
	ReplyQueueURL string // Vazio: o resultado só vai para o log.
	Commands      Invoker
}

// Start consome até o canal fechar.
func (c *JobConsumer) Start(ctx context.Context, jobChan <-chan *models.ScanJob) {
	for job := range jobChan {
		if err := c.handle(ctx, job); err != nil {
			logger.Log.Errorf("Consumer: erro no job %s: %v", job.ScanID, err)
			continue
		}
		logger.Log.Debugf("Consumer: job %s finalizado", job.ScanID)
	}
}

func (c *JobConsumer) handle(ctx context.Context, job *models.ScanJob) error {
	defer logger.TraceAuto()()

	reply, err := ProcessJob(ctx, job, c.Commands)
	if err != nil {
		return err
	}

	if c.ReplyQueueURL != "" {
		if err := c.publish(ctx, reply); err != nil {
			// A mensagem fica na fila e volta após o visibility timeout.
			return err
		}
	} else {
		logger.Log.Infow("Consumer: resultado", "scan_id", reply.ScanID, "target", reply.Target,
			"output_bytes", len(reply.Output), "error_bytes", len(reply.Error), "failure", reply.Failure)
	}

	if _, err := c.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.QueueURL),
		ReceiptHandle: aws.String(job.ReceiptHandle),
	}); err != nil {
		return fmt.Errorf("erro ao apagar mensagem: %w", err)
	}
	return nil
}

func (c *JobConsumer) publish(ctx context.Context, reply *models.ScanReply) error {
	body, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("erro ao serializar resposta: %w", err)
	}
	if _, err := c.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.ReplyQueueURL),
		MessageBody: aws.String(string(body)),
	}); err != nil {
		return fmt.Errorf("erro ao publicar resposta: %w", err)
	}
	return nil
}
