package producers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
)

type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func exhaustedIntent() *queue.Intent {
	return &queue.Intent{
		TransferID:  uuid.New(),
		FromAccount: uuid.New(),
		ToAccount:   uuid.New(),
		Amount:      50000,
		Status:      shared.IntentStatusFailed,
		RetryCount:  3,
		CreatedAt:   time.Now(),
	}
}

func TestDeadLetterProducer_PublishExhausted(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	topic := "test-dead-letter-topic"
	ctx := context.Background()

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DeadLetterProducer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}

		intent := exhaustedIntent()
		reason := "receiver account not found"

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			if string(msg.Key) != intent.TransferID.String() {
				return false
			}
			if len(msg.Headers) != 1 || msg.Headers[0].Key != "reason" || string(msg.Headers[0].Value) != reason {
				return false
			}
			var payload map[string]interface{}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				return false
			}
			return payload["transfer_id"] == intent.TransferID.String() &&
				payload["from_account"] == intent.FromAccount.String() &&
				payload["to_account"] == intent.ToAccount.String() &&
				payload["amount"] == float64(intent.Amount) &&
				payload["retry_count"] == float64(intent.RetryCount) &&
				payload["reason"] == reason &&
				payload["timestamp"] != ""
		})).Return(nil).Once()

		err := producer.PublishExhausted(ctx, intent, reason)
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("ReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DeadLetterProducer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}

		writerError := errors.New("kafka write error")
		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := producer.PublishExhausted(ctx, exhaustedIntent(), "writer_error")
		require.Error(t, err)
		assert.True(t, errors.Is(err, writerError) || strings.Contains(err.Error(), writerError.Error()))
		mockWriter.AssertExpectations(t)
	})

	t.Run("NilWriterMeansDisabled", func(t *testing.T) {
		producer := &DeadLetterProducer{
			logger: logger,
			writer: nil,
			topic:  topic,
		}

		err := producer.PublishExhausted(ctx, exhaustedIntent(), "disabled_test")
		require.Error(t, err)
		assert.Equal(t, "dead-letter producer not initialized", err.Error())
	})
}

func TestDeadLetterProducer_Close(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	topic := "test-dead-letter-topic-close"

	t.Run("SuccessfulClose", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DeadLetterProducer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}
		mockWriter.On("Close").Return(nil).Once()
		err := producer.Close()
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("CloseReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DeadLetterProducer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}
		closeError := errors.New("kafka close error")
		mockWriter.On("Close").Return(closeError).Once()
		err := producer.Close()
		require.Error(t, err)
		assert.True(t, errors.Is(err, closeError) || strings.Contains(err.Error(), closeError.Error()))
		mockWriter.AssertExpectations(t)
	})

	t.Run("CloseWithNilWriterIsNoOp", func(t *testing.T) {
		producer := &DeadLetterProducer{
			logger: logger,
			writer: nil,
			topic:  topic,
		}
		require.NoError(t, producer.Close())
	})
}
