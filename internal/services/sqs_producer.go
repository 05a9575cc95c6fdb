package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/lockwhz/retroscan/internal/logger"
	"github.com/lockwhz/retroscan/models"
)

// SQSAPI é o subconjunto do cliente SQS usado pelo worker.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

var _ SQSAPI = (*sqs.Client)(nil)

const defaultErrorBackoff = 5 * time.Second

// SQSProducer lê requisições de scan da fila e as entrega no canal.
type SQSProducer struct {
	Client       SQSAPI
	QueueURL     string
	WaitSeconds  int32
	ErrorBackoff time.Duration
}

// Start faz long polling até o ctx terminar. O canal é fechado na saída.
// Uma mensagem por vez: o consumer processa um scan de cada vez.
func (p *SQSProducer) Start(ctx context.Context) <-chan *models.ScanJob {
	jobChan := make(chan *models.ScanJob)
	go func() {
		defer close(jobChan)
		for ctx.Err() == nil {
			out, err := p.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(p.QueueURL),
				MaxNumberOfMessages: 1,
				WaitTimeSeconds:     p.WaitSeconds,
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Log.Errorf("SQSProducer: erro ao receber mensagens: %v", err)
				p.backoff(ctx)
				continue
			}

			for _, msg := range out.Messages {
				job, ok := p.parse(ctx, msg)
				if !ok {
					continue
				}
				select {
				case jobChan <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return jobChan
}

func (p *SQSProducer) parse(ctx context.Context, msg types.Message) (*models.ScanJob, bool) {
	var job models.ScanJob
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &job); err != nil {
		logger.Log.Errorf("SQSProducer: mensagem %s inválida, descartando: %v", aws.ToString(msg.MessageId), err)
		if _, delErr := p.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(p.QueueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); delErr != nil {
			logger.Log.Errorf("SQSProducer: erro ao apagar mensagem inválida: %v", delErr)
		}
		return nil, false
	}
	if job.ScanID == "" {
		job.ScanID = uuid.NewString()
	}
	if job.RequestedAt.IsZero() {
		job.RequestedAt = time.Now().UTC()
	}
	job.ReceiptHandle = aws.ToString(msg.ReceiptHandle)
	logger.Log.Debugf("SQSProducer: job %s recebido", job.ScanID)
	return &job, true
}

func (p *SQSProducer) backoff(ctx context.Context) {
	d := p.ErrorBackoff
	if d <= 0 {
		d = defaultErrorBackoff
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
