package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"boothStore/entities"
	"boothStore/models"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var cartBucket = []byte("carts")

type boltEntry struct {
	ExpiresAt int64         `json:"expiresAt"`
	Cart      entities.Cart `json:"cart"`
}

// BoltCartRepo keeps cart snapshots in an embedded bbolt file. Like the
// SQLite store, expired entries read as empty and are removed by Purge.
type BoltCartRepo struct {
	db  *bolt.DB
	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

func OpenBolt(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
}

func NewBoltCartRepository(conn *bolt.DB, ttl time.Duration, logger *zap.Logger) (*BoltCartRepo, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltCartRepo{
		db:  conn,
		ttl: ttl,
		log: logger,
		now: time.Now,
	}, nil
}

func (b *BoltCartRepo) SetCart(_ context.Context, key string, cart entities.Cart) (err error) {
	jsonData, err := json.Marshal(boltEntry{ExpiresAt: b.now().Add(b.ttl).Unix(), Cart: cart})
	if err != nil {
		b.log.Error("SetCart: marshal", zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(key), jsonData)
	})
	if err != nil {
		b.log.Error("SetCart: bolt put", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (b *BoltCartRepo) GetCart(_ context.Context, key string) (res entities.Cart, err error) {
	res = entities.Cart{}
	var entry boltEntry
	var found bool
	err = b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cartBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		// data is only valid inside the transaction
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		b.log.Error("GetCart: bolt get", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
		return
	}
	if !found || entry.ExpiresAt <= b.now().Unix() {
		return
	}
	res = entry.Cart
	return
}

func (b *BoltCartRepo) DeleteCart(_ context.Context, key string) (err error) {
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(key))
	})
	if err != nil {
		b.log.Error("DeleteCart: bolt delete", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

// Purge removes expired carts and reports how many were dropped.
func (b *BoltCartRepo) Purge(_ context.Context) (int64, error) {
	var n int64
	now := b.now().Unix()
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(cartBucket)
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil || entry.ExpiresAt <= now {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
