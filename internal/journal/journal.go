// Package journal persists the active folder and the undo stack in a bbolt file so that an
// undo issued by a later command invocation still finds the moves of an earlier one.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"lightcull/internal/domain"
)

// FileName is the journal's name inside the cache root.
const FileName = "lightcull-journal.db"

var (
	bucketSession = []byte("session")
	bucketUndo    = []byte("undo")

	keyActiveFolder = []byte("active_folder")
)

// Journal implements the undo persister and the session store on one database.
type Journal struct {
	db *bolt.DB
}

// Open opens or creates the journal at path and makes sure its buckets exist.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketUndo} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// ActiveFolder returns "" when no folder was recorded yet.
func (j *Journal) ActiveFolder() (string, error) {
	var folder string
	err := j.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSession).Get(keyActiveFolder); v != nil {
			folder = string(v)
		}
		return nil
	})
	return folder, err
}

func (j *Journal) SetActiveFolder(folder string) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyActiveFolder, []byte(folder))
	})
}

// Load returns the recorded operations, oldest first.
func (j *Journal) Load() ([]domain.MoveOperation, error) {
	var ops []domain.MoveOperation
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUndo).ForEach(func(_, v []byte) error {
			var op domain.MoveOperation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("unmarshal operation: %w", err)
			}
			ops = append(ops, op)
			return nil
		})
	})
	return ops, err
}

// Append stores op under the next sequence number. Big-endian keys keep bbolt's byte order
// equal to insertion order.
func (j *Journal) Append(op domain.MoveOperation) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUndo)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("marshal operation: %w", err)
		}
		return b.Put(sequenceKey(seq), data)
	})
}

// RemoveLast drops the newest operation. An empty journal is left alone.
func (j *Journal) RemoveLast() error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUndo)
		k, _ := b.Cursor().Last()
		if k == nil {
			return nil
		}
		return b.Delete(k)
	})
}

// Reset forgets every recorded operation.
func (j *Journal) Reset() error {
	return j.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketUndo); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketUndo)
		return err
	})
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
