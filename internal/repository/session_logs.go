package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"chat-relay/internal/domain"
)

// SessionLogStore writes per-turn records to a table whose TTL attribute is expire_at.
type SessionLogStore struct {
	table table
}

// NewSessionLogStore creates a SessionLogStore over the given table.
func NewSessionLogStore(api dynamodbAPI, tableName string) (*SessionLogStore, error) {
	t, err := newTable(api, tableName)
	if err != nil {
		return nil, err
	}
	return &SessionLogStore{table: t}, nil
}

// PutSessionLog persists rec. Records are never updated after this call.
func (s *SessionLogStore) PutSessionLog(ctx context.Context, rec domain.SessionLogRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("repository: PutSessionLog: user id is required")
	}
	_, err := s.table.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table.name),
		Item:      sessionLogItem(rec),
	})
	if err != nil {
		return fmt.Errorf("repository: PutSessionLog: %w", err)
	}
	return nil
}

func sessionLogItem(rec domain.SessionLogRecord) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"user_id":       strValue(rec.UserID),
		"timestamp":     numValue(rec.Timestamp),
		"timestamp_str": strValue(rec.TimestampStr),
		"input_message": strValue(rec.InputMessage),
		"bot_response":  strValue(rec.BotResponse),
		"expire_at":     numValue(rec.ExpireAt),
	}
	if rec.MessageID != "" {
		item["message_id"] = strValue(rec.MessageID)
	}
	return item
}
