package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"boothStore/entities"
	"boothStore/models"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const cartStateSchema = `CREATE TABLE IF NOT EXISTS CartState (
	CartKey   TEXT PRIMARY KEY,
	Value     BLOB NOT NULL,
	ExpiresAt INTEGER NOT NULL
)`

// SqliteCartRepo keeps cart snapshots in a local SQLite file. Expired rows
// read as empty carts and are removed by Purge.
type SqliteCartRepo struct {
	db  *sql.DB
	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewSqliteCartRepository(ctx context.Context, conn *sql.DB, ttl time.Duration, logger *zap.Logger) (*SqliteCartRepo, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if err := conn.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, cartStateSchema); err != nil {
		return nil, err
	}
	return &SqliteCartRepo{
		db:  conn,
		ttl: ttl,
		log: logger,
		now: time.Now,
	}, nil
}

func (s *SqliteCartRepo) SetCart(ctx context.Context, key string, cart entities.Cart) (err error) {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		s.log.Error("SetCart: marshal", zap.Error(err))
		err = models.ErrServerError
		return
	}
	expires := s.now().Add(s.ttl).Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO CartState (CartKey, Value, ExpiresAt) VALUES (?, ?, ?)
		ON CONFLICT(CartKey) DO UPDATE SET Value = excluded.Value, ExpiresAt = excluded.ExpiresAt`, key, jsonData, expires)
	if err != nil {
		s.log.Error("SetCart: sqlite upsert", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (s *SqliteCartRepo) GetCart(ctx context.Context, key string) (res entities.Cart, err error) {
	res = entities.Cart{}
	var data []byte
	var expires int64
	e := s.db.QueryRowContext(ctx, "SELECT Value, ExpiresAt FROM CartState WHERE CartKey = ?", key).Scan(&data, &expires)
	if e != nil {
		if e == sql.ErrNoRows {
			return
		}
		s.log.Error("GetCart: sqlite select", zap.String("key", key), zap.Error(e))
		err = models.ErrServerError
		return
	}
	if expires <= s.now().Unix() {
		return
	}
	err = json.Unmarshal(data, &res)
	if err != nil {
		s.log.Error("GetCart: unmarshal", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (s *SqliteCartRepo) DeleteCart(ctx context.Context, key string) (err error) {
	_, err = s.db.ExecContext(ctx, "DELETE FROM CartState WHERE CartKey = ?", key)
	if err != nil {
		s.log.Error("DeleteCart: sqlite delete", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

// Purge removes expired carts and reports how many were dropped.
func (s *SqliteCartRepo) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM CartState WHERE ExpiresAt <= ?", s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
