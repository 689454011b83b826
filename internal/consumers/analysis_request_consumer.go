package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/utils"
)

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type MessageCommitter interface {
	Commit(msg *kafka.Message) error
}

type ResultPublisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, input string) ([]models.Analysis, error)
}

// pendingRequest is a buffered message. Undecodable messages are buffered
// too, with skip set, so offsets are only ever committed in arrival order.
type pendingRequest struct {
	request models.AnalysisRequest
	msg     *kafka.Message
	skip    bool
}

// AnalysisRequestConsumer buffers analysis requests, answers each on the
// results topic and only then commits the request's offset.
type AnalysisRequestConsumer struct {
	analyzer      BatchAnalyzer
	publisher     ResultPublisher
	committer     MessageCommitter
	resultsTopic  string
	buffer        *utils.BatchBuffer[pendingRequest]
	flushInterval time.Duration
}

func NewAnalysisRequestConsumer(analyzer BatchAnalyzer, publisher ResultPublisher, committer MessageCommitter, resultsTopic string) *AnalysisRequestConsumer {
	return &AnalysisRequestConsumer{
		analyzer:      analyzer,
		publisher:     publisher,
		committer:     committer,
		resultsTopic:  resultsTopic,
		buffer:        utils.NewBatchBuffer[pendingRequest](),
		flushInterval: utils.BATCH_TIMEOUT,
	}
}

// Run consumes until ctx is cancelled or the source fails for good.
// Requests still buffered at shutdown are left uncommitted and will be
// redelivered.
func (c *AnalysisRequestConsumer) Run(ctx context.Context, source MessageSource) error {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("[AnalysisRequestConsumer] Stopping",
				slog.Int("unflushed", c.buffer.Size()))
			return nil
		case <-ticker.C:
			if err := c.flush(ctx); err != nil {
				return err
			}
		default:
			msg, err := source.Next()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				return fmt.Errorf("[AnalysisRequestConsumer] failed to read requests: %w", err)
			}
			if msg == nil {
				continue
			}
			if err := c.handleMessage(ctx, msg); err != nil {
				return err
			}
		}
	}
}

func (c *AnalysisRequestConsumer) handleMessage(ctx context.Context, msg *kafka.Message) error {
	pending := pendingRequest{msg: msg}
	if err := json.Unmarshal(msg.Value, &pending.request); err != nil {
		slog.Warn("[AnalysisRequestConsumer] Skipping undecodable message",
			slog.String("error", err.Error()),
			slog.String("offset", msg.TopicPartition.Offset.String()))
		pending.skip = true
	} else {
		if pending.request.RequestID == "" {
			pending.request.RequestID = string(msg.Key)
		}
		if pending.request.RequestID == "" {
			pending.request.RequestID = uuid.NewString()
		}
	}

	if full := c.buffer.Add(pending); full {
		return c.flush(ctx)
	}
	return nil
}

// flush answers every buffered request in arrival order. A publish failure
// stops the flush so that no later offset is committed past it.
func (c *AnalysisRequestConsumer) flush(ctx context.Context) error {
	c.buffer.LogBatchProcessing("analysis-requests")
	batch := c.buffer.GetAndClear()

	for _, pending := range batch {
		if pending.skip {
			c.commit(pending.msg, "")
			continue
		}

		response := c.process(ctx, pending.request)

		if err := c.publisher.PublishJSON(ctx, c.resultsTopic, response.RequestID, response); err != nil {
			return fmt.Errorf("[AnalysisRequestConsumer] failed to publish results for %s: %w", response.RequestID, err)
		}
		c.commit(pending.msg, response.RequestID)
	}
	return nil
}

func (c *AnalysisRequestConsumer) commit(msg *kafka.Message, requestID string) {
	if err := c.committer.Commit(msg); err != nil {
		slog.Warn("[AnalysisRequestConsumer] Failed to commit offset",
			slog.String("request_id", requestID),
			slog.String("offset", msg.TopicPartition.Offset.String()),
			slog.String("error", err.Error()))
	}
}

func (c *AnalysisRequestConsumer) process(ctx context.Context, request models.AnalysisRequest) models.AnalysisResponse {
	results, err := c.analyzer.AnalyzeBatch(ctx, request.Text)
	if err != nil {
		slog.Warn("[AnalysisRequestConsumer] Analysis failed",
			slog.String("request_id", request.RequestID),
			slog.String("error", err.Error()))
		return models.AnalysisResponse{
			RequestID: request.RequestID,
			Results:   []models.Analysis{},
			Error:     err.Error(),
		}
	}

	return models.AnalysisResponse{
		RequestID: request.RequestID,
		Results:   results,
	}
}
