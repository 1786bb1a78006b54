package docstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store keeps one JSON document per key in Postgres. There is no merge and
// no history: a put replaces the document wholesale, exactly the contract
// the sync coordinator assumes of its remote.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// ErrNotFound is returned before the first put of a key.
var ErrNotFound = errors.New("document not found")

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.DB.QueryRow(ctx, `
    SELECT body
    FROM ledger_documents
    WHERE doc_key = $1
  `, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO ledger_documents (doc_key, body, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (doc_key)
    DO UPDATE SET body = EXCLUDED.body, updated_at = now()
  `, key, body)
	return err
}
