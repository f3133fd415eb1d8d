// ABOUTME: Charm KV backend for raw uploads, end-to-end encrypted and cloud synced.
// ABOUTME: One KV handle per process; writes push to Charm Cloud unless batched.
package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/harperreed/liftlog/internal/logging"
)

const (
	// DBName is the Charm KV database holding liftlog uploads.
	DBName = "liftlog"
	// Host is the Charm server liftlog syncs with.
	Host = "charm.2389.dev"
)

// ErrReadOnly means another process (usually 'liftlog mcp') holds the KV lock.
var ErrReadOnly = errors.New("charm store is read-only: another liftlog process holds the database lock")

// store is the part of *kv.KV the client uses.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

// Client keeps uploads in Charm KV and implements storage.Repository.
type Client struct {
	mu     sync.RWMutex
	kv     store
	logger *log.Logger
	batch  bool
}

var (
	openOnce sync.Once
	shared   *Client
	openErr  error
)

// InitClient opens the process-wide client and pulls remote changes once.
// Later calls return the same client.
func InitClient() (*Client, error) {
	openOnce.Do(func() {
		if err := os.Setenv("CHARM_HOST", Host); err != nil {
			openErr = err
			return
		}
		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			openErr = fmt.Errorf("open charm kv %s: %w", DBName, err)
			return
		}
		shared = newClient(db, logging.Get())
		if err := shared.Sync(); err != nil {
			shared.logger.Warn("initial charm sync failed", "err", err)
		}
	})
	return shared, openErr
}

func newClient(s store, logger *log.Logger) *Client {
	return &Client{kv: s, logger: logger}
}

// Close releases the KV handle.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Close()
}

// IsReadOnly reports whether writes will fail with ErrReadOnly.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync exchanges changes with Charm Cloud. Read-only clients skip it.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// Batch suspends the per-write sync until the returned func runs, which
// performs a single sync for everything written in between.
func (c *Client) Batch() (done func() error) {
	c.mu.Lock()
	c.batch = true
	c.mu.Unlock()

	return func() error {
		c.mu.Lock()
		c.batch = false
		c.mu.Unlock()
		return c.Sync()
	}
}

// ID returns the Charm account ID this device is linked to.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// write runs fn under the write lock, then pushes the change unless batching.
func (c *Client) write(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := fn(); err != nil {
		return err
	}
	if !c.batch {
		if err := c.kv.Sync(); err != nil {
			c.logger.Warn("charm sync after write failed", "err", err)
		}
	}
	return nil
}

// entry is one key/value pair read from the store.
type entry struct {
	key   string
	value []byte
}

// scan returns every entry whose key starts with prefix.
func (c *Client) scan(prefix []byte) ([]entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []entry
	for _, k := range keys {
		if !bytes.HasPrefix(k, prefix) {
			continue
		}
		v, err := c.kv.Get(k)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", k, err)
		}
		out = append(out, entry{key: string(k), value: v})
	}
	return out, nil
}

// exists reports whether key is present. Charm's Get does not distinguish a
// missing key from other failures, so this checks the key list.
func (c *Client) exists(key []byte) (bool, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true, nil
		}
	}
	return false, nil
}
