package report

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/resilience"
)

// Publisher announces completed comparison runs on a Kafka topic so
// downstream reporting systems can consume them.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a Publisher over an existing producer.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   logger.WithComponent("report-publisher"),
	}
}

// Publish sends one report, keyed by dataset checksum so runs over the
// same dataset land on the same partition. Transient failures are
// retried.
func (p *Publisher) Publish(ctx context.Context, r *comparator.Report) error {
	err := resilience.Retry(ctx, "report-publish", resilience.RetryConfig{}, func() error {
		return p.producer.Publish(ctx, kafka.Event{
			Key:   r.DatasetChecksum,
			Value: r,
		})
	})
	if err != nil {
		return err
	}
	p.logger.Debug("report published",
		"dataset_checksum", r.DatasetChecksum,
		"gap_codec", r.Gaps.Codec,
		"frequency_codec", r.Frequencies.Codec,
	)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
