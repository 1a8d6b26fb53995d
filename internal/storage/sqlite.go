package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"blocksmith/internal/assembly"
	"blocksmith/internal/knowledge"
)

// RunRecord is the governance entry written for every assembly run.
type RunRecord struct {
	ID                 string               `json:"id"`
	CreatedAt          time.Time            `json:"created_at"`
	SectionCount       int                  `json:"section_count"`
	BlockCount         int                  `json:"block_count"`
	FallbacksApplied   int                  `json:"fallbacks_applied"`
	AccessibilityScore int                  `json:"accessibility_score"`
	EstimatedLoadTime  float64              `json:"estimated_load_time_s"`
	BlocksUsed         map[string]int       `json:"blocks_used"`
	Warnings           []string             `json:"warnings"`
	Indicators         []assembly.Indicator `json:"indicators"`
}

// SQLiteStore persists governance runs and content embeddings in one local
// database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			section_count INTEGER,
			block_count INTEGER,
			fallbacks_applied INTEGER,
			accessibility_score INTEGER,
			estimated_load_time REAL,
			blocks_used JSON,
			warnings JSON,
			indicators JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			content JSON,
			embedding BLOB
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- Governance log ---

func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord) error {
	blocksUsed, _ := json.Marshal(rec.BlocksUsed)
	warnings, _ := json.Marshal(rec.Warnings)
	indicators, _ := json.Marshal(rec.Indicators)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, section_count, block_count, fallbacks_applied,
			accessibility_score, estimated_load_time, blocks_used, warnings, indicators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.SectionCount, rec.BlockCount,
		rec.FallbacksApplied, rec.AccessibilityScore, rec.EstimatedLoadTime,
		blocksUsed, warnings, indicators)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, section_count, block_count, fallbacks_applied,
			accessibility_score, estimated_load_time, blocks_used, warnings, indicators
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, section_count, block_count, fallbacks_applied,
			accessibility_score, estimated_load_time, blocks_used, warnings, indicators
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var createdAt string
	var blocksUsed, warnings, indicators []byte
	if err := row.Scan(&rec.ID, &createdAt, &rec.SectionCount, &rec.BlockCount,
		&rec.FallbacksApplied, &rec.AccessibilityScore, &rec.EstimatedLoadTime,
		&blocksUsed, &warnings, &indicators); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	_ = json.Unmarshal(blocksUsed, &rec.BlocksUsed)
	_ = json.Unmarshal(warnings, &rec.Warnings)
	_ = json.Unmarshal(indicators, &rec.Indicators)
	return &rec, nil
}

// --- Vector store (implements knowledge.Indexer) ---

func (s *SQLiteStore) Add(ctx context.Context, items []knowledge.VectorItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, embedding) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content=excluded.content, embedding=excluded.embedding
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		contentJSON, err := json.Marshal(item.Chunk)
		if err != nil {
			continue
		}

		buf := new(bytes.Buffer)
		if err := binary.Write(buf, binary.LittleEndian, item.Embedding); err != nil {
			return err
		}
		if _, err := stmt.Exec(item.Chunk.ID, contentJSON, buf.Bytes()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search runs an in-memory cosine scan over the stored chunks. Fine for the
// few thousand chunks a single site produces.
func (s *SQLiteStore) Search(ctx context.Context, queryVector []float32, topK int) ([]knowledge.VectorItem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT content, embedding FROM chunks")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type candidate struct {
		item  knowledge.VectorItem
		score float32
	}
	var candidates []candidate

	for rows.Next() {
		var contentJSON, embeddingBlob []byte
		if err := rows.Scan(&contentJSON, &embeddingBlob); err != nil {
			return nil, err
		}

		var chunk knowledge.ContentChunk
		if err := json.Unmarshal(contentJSON, &chunk); err != nil {
			continue
		}

		embedding := make([]float32, len(embeddingBlob)/4)
		if err := binary.Read(bytes.NewReader(embeddingBlob), binary.LittleEndian, &embedding); err != nil {
			continue
		}

		candidates = append(candidates, candidate{
			item:  knowledge.VectorItem{Chunk: chunk, Embedding: embedding},
			score: knowledge.CosineSimilarity(queryVector, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].score < candidates[j].score {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]knowledge.VectorItem, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.item)
	}
	return out, nil
}

// Delete removes chunks by id, for re-indexing updated content.
func (s *SQLiteStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM chunks WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
