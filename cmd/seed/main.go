// Command seed publishes documents from a JSON file to the document topic.
// The input is an array of JSON objects; documents missing the uid field
// get a generated UUID so they are indexable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/nvelichkov/fieldsearch/pkg/config"
	"github.com/nvelichkov/fieldsearch/pkg/kafka"
	"github.com/nvelichkov/fieldsearch/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	inputPath := flag.String("input", "", "path to a JSON array of documents")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -input documents.json [-config path]")
		os.Exit(2)
	}
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		slog.Error("reading input file failed", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		slog.Error("input is not a JSON array of documents", "error", err)
		os.Exit(1)
	}

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	ctx := context.Background()
	published := 0
	for _, doc := range docs {
		var uid string
		switch v := doc[cfg.Engine.UIDField].(type) {
		case string:
			uid = v
		case float64:
			uid = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if uid == "" {
			uid = uuid.NewString()
			doc[cfg.Engine.UIDField] = uid
		}
		if err := producer.Publish(ctx, uid, doc); err != nil {
			slog.Error("publish failed", "uid", uid, "error", err)
			os.Exit(1)
		}
		published++
	}
	slog.Info("seed complete",
		"topic", cfg.Kafka.DocumentTopic,
		"documents", published,
	)
}
