package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"chat-relay/internal/domain"
)

// sqsAPI is the minimal SQS interface required by Client.
type sqsAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Client enqueues QueuedMessages on one SQS queue.
type Client struct {
	api      sqsAPI
	queueURL string
	fifo     bool
}

// New creates a Client for queueURL. Queues whose URL ends in .fifo get
// message group and deduplication ids.
func New(api sqsAPI, queueURL string) (*Client, error) {
	if api == nil {
		return nil, errors.New("queue: api must not be nil")
	}
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, errors.New("queue: queue url must not be empty")
	}
	return &Client{
		api:      api,
		queueURL: queueURL,
		fifo:     strings.HasSuffix(queueURL, ".fifo"),
	}, nil
}

// Enqueue sends msg as {"chat_id": ..., "text": ...} and returns the SQS message id.
func (c *Client) Enqueue(ctx context.Context, msg domain.QueuedMessage) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("queue: marshal message: %w", err)
	}

	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
	}
	if c.fifo {
		if msg.GroupID == "" || msg.DedupID == "" {
			return "", errors.New("queue: fifo queue requires group and deduplication ids")
		}
		in.MessageGroupId = aws.String(msg.GroupID)
		in.MessageDeduplicationId = aws.String(msg.DedupID)
	}

	out, err := c.api.SendMessage(ctx, in)
	if err != nil {
		return "", fmt.Errorf("queue: send message: %w", err)
	}
	if out == nil || out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}
