package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/seismic-prep/internal/config"
	"github.com/couchcryptid/seismic-prep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	md := domain.StationMetadata{
		Latitude:       31.5,
		Longitude:      35.0,
		DistanceKm:     55.44,
		AzimuthDeg:     0,
		TriggerTimeSec: 7.43,
	}
	event := domain.Event{Latitude: 31, Longitude: 35, Magnitude: 5.8, DepthKm: 10}

	msg, err := serializeToMessage("STA1", md, "run-1", event)
	require.NoError(t, err)

	assert.Equal(t, []byte("STA1"), msg.Key)
	assert.JSONEq(t, `{
		"station": "STA1",
		"latitude": 31.5,
		"longitude": 35,
		"distance_km": 55.44,
		"azimuth_deg": 0,
		"trigger_time_sec": 7.43
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[0].Value)
	assert.Equal(t, "event", msg.Headers[1].Key)
	assert.Equal(t, []byte(event.String()), msg.Headers[1].Value)

	var decoded struct {
		Station string `json:"station"`
		domain.StationMetadata
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, md, decoded.StationMetadata)
}

func TestPublishMetadata_Empty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "unused"}
	p := NewStationPublisher(cfg, "run-1", domain.Event{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer func() { _ = p.Close() }()

	// Nothing to send, so the unreachable broker is never dialled.
	require.NoError(t, p.PublishMetadata(context.Background(), nil))
}
