package db

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/sentidash/internal/models"
)

const (
	HISTORY_TABLE_NAME = "AnalysisHistory"
	historyKeyName     = "id"

	maxBatchWriteSize     = 25
	maxUnprocessedRetries = 3
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoHistory.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoHistory stores one item per entry keyed by the numeric entry id.
// Ordering comes from the ids, so callers must hand out increasing ids.
type DynamoHistory struct {
	client  DynamoAPI
	table   string
	limit   int
	backoff time.Duration
}

func NewDynamoHistory(client DynamoAPI, table string, limit int) *DynamoHistory {
	if table == "" {
		table = HISTORY_TABLE_NAME
	}
	return &DynamoHistory{
		client:  client,
		table:   table,
		limit:   normalizeLimit(limit),
		backoff: 500 * time.Millisecond,
	}
}

func (d *DynamoHistory) Prepend(ctx context.Context, entries ...models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(entries))
	for _, entry := range entries {
		item, err := EntryToDynamoDBItem(entry)
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := d.batchWrite(ctx, requests); err != nil {
		return err
	}
	return d.trim(ctx)
}

func (d *DynamoHistory) List(ctx context.Context) ([]models.HistoryEntry, error) {
	items, err := d.scan(ctx, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &entries); err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to unmarshal history entries: %w", err)
	}

	slices.SortFunc(entries, func(a, b models.HistoryEntry) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	if len(entries) > d.limit {
		entries = entries[:d.limit]
	}
	return entries, nil
}

func (d *DynamoHistory) Clear(ctx context.Context) error {
	keys, err := d.scan(ctx, aws.String(historyKeyName))
	if err != nil {
		return err
	}
	if err := d.batchWrite(ctx, deleteRequests(keys)); err != nil {
		return err
	}

	slog.Info("[DynamoDB] Cleared history", slog.Int("deleted", len(keys)))
	return nil
}

func (d *DynamoHistory) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] describe table %s: %w", d.table, err)
	}
	return nil
}

// trim deletes everything older than the newest d.limit entries.
func (d *DynamoHistory) trim(ctx context.Context) error {
	keys, err := d.scan(ctx, aws.String(historyKeyName))
	if err != nil {
		return err
	}
	if len(keys) <= d.limit {
		return nil
	}

	slices.SortFunc(keys, func(a, b map[string]types.AttributeValue) int {
		ai, bi := keyValue(a), keyValue(b)
		switch {
		case ai > bi:
			return -1
		case ai < bi:
			return 1
		default:
			return 0
		}
	})

	stale := keys[d.limit:]
	slog.Debug("[DynamoDB] Trimming history", slog.Int("stale", len(stale)))
	return d.batchWrite(ctx, deleteRequests(stale))
}

func (d *DynamoHistory) scan(ctx context.Context, projection *string) ([]map[string]types.AttributeValue, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:            aws.String(d.table),
		ProjectionExpression: projection,
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] scan of %s failed: %w", d.table, err)
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// batchWrite sends requests in chunks of 25 and retries unprocessed items
// with doubling backoff.
func (d *DynamoHistory) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for i := 0; i < len(requests); i += maxBatchWriteSize {
		end := min(i+maxBatchWriteSize, len(requests))

		out, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				d.table: requests[i:end],
			},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] failed to batch write history: %w", err)
		}

		retryCount := 0
		backoff := d.backoff
		for len(out.UnprocessedItems) > 0 && retryCount < maxUnprocessedRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2

			slog.Warn("[DynamoDB] Retrying unprocessed items...",
				slog.Int("retry_attempt", retryCount+1),
				slog.Int("remaining_items", len(out.UnprocessedItems[d.table])))

			out, err = d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] failed to retry batch write: %w", err)
			}
			retryCount++
		}

		if remaining := len(out.UnprocessedItems[d.table]); remaining > 0 {
			return fmt.Errorf("[DynamoDB] %d history items unprocessed after %d retries", remaining, maxUnprocessedRetries)
		}
	}
	return nil
}

func EntryToDynamoDBItem(entry models.HistoryEntry) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to marshal history entry: %w", err)
	}
	return item, nil
}

func deleteRequests(keys []map[string]types.AttributeValue) []types.WriteRequest {
	requests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{historyKeyName: key[historyKeyName]},
			},
		})
	}
	return requests
}

func keyValue(item map[string]types.AttributeValue) float64 {
	n, ok := item[historyKeyName].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.ParseFloat(n.Value, 64)
	return v
}
