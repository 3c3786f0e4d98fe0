package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// StationPublisher announces station metadata to a Kafka topic, one message
// per station keyed by station code.
// It implements pipeline.MetadataNotifier.
type StationPublisher struct {
	writer *kafkago.Writer
	runID  string
	event  domain.Event
	logger *slog.Logger
}

// NewStationPublisher creates a Kafka producer for the configured topic.
func NewStationPublisher(cfg *config.Config, runID string, event domain.Event, logger *slog.Logger) *StationPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &StationPublisher{writer: w, runID: runID, event: event, logger: logger}
}

// PublishMetadata writes every station of md in a single WriteMessages call,
// in station code order.
func (p *StationPublisher) PublishMetadata(ctx context.Context, md domain.MetadataMap) error {
	if len(md) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(md))
	for _, code := range slices.Sorted(maps.Keys(md)) {
		msg, err := serializeToMessage(code, md[code], p.runID, p.event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish station metadata: %w", err)
	}
	p.logger.Info("station metadata published", "topic", p.writer.Topic, "stations", len(msgs))
	return nil
}

func (p *StationPublisher) Close() error {
	return p.writer.Close()
}

// stationMessage is the JSON value of a station announcement.
type stationMessage struct {
	Station string `json:"station"`
	domain.StationMetadata
}

// serializeToMessage marshals one station's metadata into a Kafka message.
func serializeToMessage(code string, md domain.StationMetadata, runID string, event domain.Event) (kafkago.Message, error) {
	data, err := json.Marshal(stationMessage{Station: code, StationMetadata: md})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize station metadata: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "event", Value: []byte(event.String())},
		},
	}, nil
}
