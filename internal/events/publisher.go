// Package events streams ledger writes to Kafka so downstream consumers
// (notification fan-out, analytics) can react without coupling to the API.
// Publishing is best-effort: a broker outage never fails or delays a
// registration.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"campusconnect/internal/platform/config"
	"campusconnect/internal/registration/models"
)

// registrationCreated is the wire payload for a ledger write.
type registrationCreated struct {
	Type           string    `json:"type"`
	RegistrationID string    `json:"registrationId"`
	UserID         string    `json:"userId"`
	NoticeID       string    `json:"noticeId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Publisher emits registration events to a Kafka topic.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the configured brokers and ensures the topic
// exists. Returns nil when no brokers are configured (publishing disabled).
func NewPublisher(cfg config.Kafka, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(client, cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Publisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

func ensureTopic(client *kgo.Client, topic string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	// Already-exists is fine; anything else is a config problem worth
	// surfacing at startup.
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// PublishRegistrationCreated emits one event asynchronously. Errors are
// logged, never returned: the ledger write already committed.
func (p *Publisher) PublishRegistrationCreated(ctx context.Context, reg *models.Registration) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(registrationCreated{
		Type:           "registration.created",
		RegistrationID: reg.ID.String(),
		UserID:         reg.UserID.String(),
		NoticeID:       reg.NoticeID.String(),
		CreatedAt:      reg.CreatedAt,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal registration event", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(reg.UserID.String()),
		Value: payload,
	}
	p.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("publish registration event",
				"error", err,
				"registration_id", reg.ID,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
