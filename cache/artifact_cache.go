// Package cache provides a persistent cache for compiled contract artifacts, so that repeated batch compiles of
// unchanged sources can skip their compiler invocations.
package cache

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/vyperlang/go-vyper/utils"
	"go.etcd.io/bbolt"
)

// artifactCacheFileName is the name of the database file holding cached artifacts.
const artifactCacheFileName = "govyper-artifacts.db"

// artifactBucketName is the bucket under which compiled bytecode is stored.
var artifactBucketName = []byte("artifacts")

// ArtifactCache provides a thread-safe cache mapping artifact keys to compiled bytecode, persisted to disk.
type ArtifactCache struct {
	db *bbolt.DB
}

// Open opens (or creates) an artifact cache in the given directory.
func Open(directory string) (*ArtifactCache, error) {
	if err := utils.MakeDirectory(directory); err != nil {
		return nil, err
	}

	cacheFile := filepath.Join(directory, artifactCacheFileName)
	db, err := bbolt.Open(cacheFile, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Create the default bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(artifactBucketName)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &ArtifactCache{db: db}, nil
}

// Key computes the cache key for a contract source file compiled under a given mode. The key is a SHA-256 digest
// over the source file contents and the mode, so any source edit or mode change misses the cache.
func Key(sourcePath string, mode string) ([]byte, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hasher := sha256.New()
	hasher.Write(source)
	hasher.Write([]byte{0})
	hasher.Write([]byte(mode))
	return hasher.Sum(nil), nil
}

// Get looks up cached bytecode by key. The second return value reports whether the key was present.
func (c *ArtifactCache) Get(key []byte) (string, bool, error) {
	var bytecode string
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(artifactBucketName).Get(key)
		if data == nil {
			return nil
		}
		found = true
		bytecode = string(data)
		return nil
	})
	if err != nil {
		return "", false, errors.WithStack(err)
	}
	return bytecode, found, nil
}

// Put stores compiled bytecode under the given key, replacing any previous entry.
func (c *ArtifactCache) Put(key []byte, bytecode string) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(artifactBucketName).Put(key, []byte(bytecode))
	})
	return errors.WithStack(err)
}

// Close flushes and closes the underlying database.
func (c *ArtifactCache) Close() error {
	return errors.WithStack(c.db.Close())
}
