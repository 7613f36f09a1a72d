package messenger

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/musee-dezental/frame-core/internal/config"
	"go.uber.org/zap"
)

type Item string

var (
	OracleRequest Item = "oracle.request"
	OracleFulfill Item = "oracle.fulfill"
)

func (i Item) queue() string {
	return fmt.Sprintf("%s.%s", config.Get().Index, string(i))
}

func (i Item) url() string {
	return fmt.Sprintf("%s/%s", config.Get().Aws.QueueUrl, i.queue())
}

type MessageService interface {
	SendMessage(item Item, body []byte) error
	PollMessages(item Item, messages chan *sqs.Message)
	DeleteMessage(item Item, message *sqs.Message) error
	GetQueueSize(item Item) (*int, error)
}

type Messenger struct {
	svc *sqs.SQS
}

func NewMessenger(svc *sqs.SQS) MessageService {
	return Messenger{svc: svc}
}

func (m Messenger) SendMessage(item Item, body []byte) error {
	_, err := m.svc.SendMessage(&sqs.SendMessageInput{
		QueueUrl:    aws.String(item.url()),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("Messenger: Failed to send message")
	}

	return err
}

func (m Messenger) PollMessages(item Item, messages chan *sqs.Message) {
	for {
		output, err := m.svc.ReceiveMessage(&sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(item.url()),
			MaxNumberOfMessages: aws.Int64(10),
			WaitTimeSeconds:     aws.Int64(20),
		})
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("Messenger: Failed to receive messages")
			continue
		}

		for _, message := range output.Messages {
			messages <- message
		}
	}
}

func (m Messenger) DeleteMessage(item Item, message *sqs.Message) error {
	_, err := m.svc.DeleteMessage(&sqs.DeleteMessageInput{
		QueueUrl:      aws.String(item.url()),
		ReceiptHandle: message.ReceiptHandle,
	})

	return err
}

func (m Messenger) GetQueueSize(item Item) (*int, error) {
	attr := "ApproximateNumberOfMessages"
	output, err := m.svc.GetQueueAttributes(&sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(item.url()),
		AttributeNames: []*string{&attr},
	})
	if err != nil {
		return nil, err
	}

	size := 0
	if v, ok := output.Attributes[attr]; ok {
		if _, err := fmt.Sscanf(*v, "%d", &size); err != nil {
			return nil, err
		}
	}

	return &size, nil
}
