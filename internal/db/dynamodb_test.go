package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	mu              sync.Mutex
	items           map[string]map[string]types.AttributeValue
	deferFirstWrite bool
	writeCalls      int
	describeErr     error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		if in.ProjectionExpression != nil {
			out.Items = append(out.Items, map[string]types.AttributeValue{historyKeyName: item[historyKeyName]})
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeCalls++
	if f.deferFirstWrite {
		f.deferFirstWrite = false
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
	}

	for _, requests := range in.RequestItems {
		if len(requests) > maxBatchWriteSize {
			return nil, errors.New("too many items in batch")
		}
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				id := req.PutRequest.Item[historyKeyName].(*types.AttributeValueMemberN).Value
				f.items[id] = req.PutRequest.Item
			case req.DeleteRequest != nil:
				id := req.DeleteRequest.Key[historyKeyName].(*types.AttributeValueMemberN).Value
				delete(f.items, id)
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, f.describeErr
}

func newTestDynamoHistory(fake *fakeDynamo, limit int) *DynamoHistory {
	h := NewDynamoHistory(fake, "", limit)
	h.backoff = time.Millisecond
	return h
}

func TestDynamoHistory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newTestDynamoHistory(newFakeDynamo(), 10)

	want := models.HistoryEntry{ID: 1700000000123}
	want.Text = "I love it!"
	want.Sentiment = models.Sentiment{Score: 1, Label: models.LabelPositive, Confidence: 0.55}
	want.Emotions = models.Emotions{Joy: 0.9, Surprise: 0.1}
	want.Statistics = models.Statistics{WordCount: 3, CharCount: 10, ReadingTime: "1s", Complexity: models.ComplexityLow, Polarity: 1, Subjectivity: 0.9}
	want.Insights = []string{"Strong positive sentiment detected", "Primary emotion: joy"}
	want.ProcessingTime = 12.5
	want.Timestamp = models.NewTimestamp(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))

	require.NoError(t, h.Prepend(ctx, want))

	got, err := h.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, want.Timestamp.Equal(got[0].Timestamp.Time))
	got[0].Timestamp = want.Timestamp
	assert.Equal(t, want, got[0])
}

func TestDynamoHistory_OrdersByIDAndTrims(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	h := newTestDynamoHistory(fake, 2)

	require.NoError(t, h.Prepend(ctx, entryWithID(1), entryWithID(2)))
	require.NoError(t, h.Prepend(ctx, entryWithID(2.5)))

	got, err := h.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2}, ids(got))
	assert.Len(t, fake.items, 2)
}

func TestDynamoHistory_ChunksLargeWrites(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	h := newTestDynamoHistory(fake, 100)

	entries := make([]models.HistoryEntry, 0, 60)
	for i := 1; i <= 60; i++ {
		entries = append(entries, entryWithID(float64(i)))
	}
	require.NoError(t, h.Prepend(ctx, entries...))

	assert.Len(t, fake.items, 60)
	assert.Equal(t, 3, fake.writeCalls)
}

func TestDynamoHistory_RetriesUnprocessedItems(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.deferFirstWrite = true
	h := newTestDynamoHistory(fake, 10)

	require.NoError(t, h.Prepend(ctx, entryWithID(1)))
	assert.Len(t, fake.items, 1)
	assert.Equal(t, 2, fake.writeCalls)
}

func TestDynamoHistory_Clear(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	h := newTestDynamoHistory(fake, 10)

	require.NoError(t, h.Prepend(ctx, entryWithID(1), entryWithID(2)))
	require.NoError(t, h.Clear(ctx))

	got, err := h.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDynamoHistory_Ping(t *testing.T) {
	fake := newFakeDynamo()
	h := newTestDynamoHistory(fake, 10)
	assert.NoError(t, h.Ping(context.Background()))

	fake.describeErr = errors.New("table missing")
	assert.ErrorContains(t, h.Ping(context.Background()), "table missing")
}
