package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nvelichkov/fieldsearch/internal/index"
)

// DocumentStore reads the document collection from the documents table.
type DocumentStore struct {
	client   *Client
	uidField string
	logger   *slog.Logger
}

// NewDocumentStore creates a store that writes each row's uid into the
// configured uid field of the returned document.
func NewDocumentStore(client *Client, uidField string) *DocumentStore {
	return &DocumentStore{
		client:   client,
		uidField: uidField,
		logger:   slog.Default().With("component", "document-store"),
	}
}

// LoadAll returns every stored document. Rows whose fields column cannot be
// decoded are skipped with a warning rather than failing the load.
func (s *DocumentStore) LoadAll(ctx context.Context) ([]index.Document, error) {
	rows, err := s.client.DB.QueryContext(ctx,
		`SELECT uid, fields FROM documents ORDER BY uid`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []index.Document
	for rows.Next() {
		var (
			uid    string
			fields []byte
		)
		if err := rows.Scan(&uid, &fields); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		doc := index.Document{}
		if err := json.Unmarshal(fields, &doc); err != nil {
			s.logger.Warn("skipping undecodable document", "uid", uid, "error", err)
			continue
		}
		doc[s.uidField] = uid
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// Save upserts a document under the given uid.
func (s *DocumentStore) Save(ctx context.Context, uid string, doc index.Document) error {
	fields, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", uid, err)
	}
	_, err = s.client.DB.ExecContext(ctx,
		`INSERT INTO documents (uid, fields) VALUES ($1, $2)
		 ON CONFLICT (uid) DO UPDATE SET fields = EXCLUDED.fields`,
		uid, fields)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", uid, err)
	}
	return nil
}
