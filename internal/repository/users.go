package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"chat-relay/internal/domain"
)

const (
	attrUserID   = "user_id"
	attrLastSeen = "last_seen"
)

// UserDirectory keeps one last-activity record per chat identity.
type UserDirectory struct {
	table table
}

// NewUserDirectory creates a UserDirectory over the given table.
func NewUserDirectory(api dynamodbAPI, tableName string) (*UserDirectory, error) {
	t, err := newTable(api, tableName)
	if err != nil {
		return nil, err
	}
	return &UserDirectory{table: t}, nil
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrUserID: strValue(userID)}
}

// Touch creates the record for userID on first sight and otherwise moves
// last_seen forward. It reports whether a new record was created.
func (d *UserDirectory) Touch(ctx context.Context, userID string, now time.Time) (bool, error) {
	if userID == "" {
		return false, errors.New("repository: Touch: user id is required")
	}
	lastSeen := domain.FormatLastSeen(now)

	out, err := d.table.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table.name),
		Key:       userKey(userID),
	})
	if err != nil {
		return false, fmt.Errorf("repository: Touch get item: %w", err)
	}

	if out == nil || len(out.Item) == 0 {
		_, err = d.table.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(d.table.name),
			Item:      userItem(domain.UserRecord{UserID: userID, LastSeen: lastSeen}),
		})
		if err != nil {
			return false, fmt.Errorf("repository: Touch put item: %w", err)
		}
		return true, nil
	}

	_, err = d.table.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table.name),
		Key:              userKey(userID),
		UpdateExpression: aws.String("SET last_seen = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": strValue(lastSeen),
		},
	})
	if err != nil {
		return false, fmt.Errorf("repository: Touch update item: %w", err)
	}
	return false, nil
}

func userItem(u domain.UserRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUserID:   strValue(u.UserID),
		attrLastSeen: strValue(u.LastSeen),
	}
}
