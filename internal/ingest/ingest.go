// Package ingest feeds documents from the Kafka document topic into the
// search service. Each message carries one JSON document; malformed
// documents and documents without a usable uid are dropped with a warning
// rather than failing the pipeline.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/nvelichkov/fieldsearch/internal/engine"
	"github.com/nvelichkov/fieldsearch/internal/server"
	"github.com/nvelichkov/fieldsearch/pkg/config"
	"github.com/nvelichkov/fieldsearch/pkg/kafka"
	"github.com/nvelichkov/fieldsearch/pkg/postgres"
)

// Ingestor consumes document messages and adds them to the service,
// optionally persisting each accepted document to the Postgres document
// store so it survives restarts.
type Ingestor struct {
	svc      *server.Service
	store    *postgres.DocumentStore // nil when Postgres is disabled
	uidField string
	consumer *kafka.Consumer
	logger   *slog.Logger
}

func New(cfg config.KafkaConfig, svc *server.Service, store *postgres.DocumentStore, uidField string) *Ingestor {
	ing := &Ingestor{
		svc:      svc,
		store:    store,
		uidField: uidField,
		logger:   slog.Default().With("component", "ingestor"),
	}
	ing.consumer = kafka.NewConsumer(cfg, ing.handleMessage)
	return ing
}

// Start runs the consume loop until ctx is cancelled.
func (i *Ingestor) Start(ctx context.Context) error {
	return i.consumer.Start(ctx)
}

func (i *Ingestor) handleMessage(ctx context.Context, key, value []byte) error {
	var doc engine.Document
	if err := json.Unmarshal(value, &doc); err != nil {
		return fmt.Errorf("decoding document message: %w", err)
	}
	uid, ok := uidString(doc[i.uidField])
	if !ok {
		i.logger.Warn("dropping document without usable uid",
			"key", string(key),
			"uid_field", i.uidField,
		)
		return nil
	}

	added := i.svc.AddDocuments(ctx, []engine.Document{doc})
	if added == 0 {
		return nil
	}
	i.logger.Info("document ingested", "uid", uid)
	if i.store != nil {
		if err := i.store.Save(ctx, uid, doc); err != nil {
			i.logger.Error("persisting ingested document failed",
				"uid", uid,
				"error", err,
			)
		}
	}
	return nil
}

// uidString mirrors the engine's uid extraction for JSON-decoded values.
func uidString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
