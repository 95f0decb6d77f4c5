// ABOUTME: Charm-backed wellness repository with cloud sync.
// ABOUTME: Wraps a charm KV database in the shared kvstore layout and pushes after writes.
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/wellness/internal/kvstore"
)

const (
	// DBName is the charm KV database name.
	DBName = "wellness"
	// DefaultHost is the charm server used when none is configured.
	DefaultHost = "charm.2389.dev"
)

// ErrReadOnly is returned by writes while another process holds the lock.
var ErrReadOnly = errors.New("charm store is read-only: another wellness process holds the lock")

// Options configures the charm client.
type Options struct {
	Host     string
	DataDir  string
	AutoSync bool
}

// Client is a storage.Repository over a charm KV database.
type Client struct {
	*kvstore.Store

	mu       sync.RWMutex
	db       *kv.KV
	host     string
	autoSync bool
}

var (
	shared     *Client
	sharedErr  error
	sharedOnce sync.Once
)

// InitClient opens the process-wide charm client. The first call wins;
// later calls return the same client and ignore opts.
func InitClient(opts Options) (*Client, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = open(opts)
	})
	return shared, sharedErr
}

// ConfigureEnv exports CHARM_HOST and, when set, CHARM_DATA_DIR. The kv
// package reads both, so this must run before kv.Open, kv.Wipe or kv.Repair.
func ConfigureEnv(opts Options) (host string, err error) {
	host = opts.Host
	if host == "" {
		host = DefaultHost
	}
	env := map[string]string{"CHARM_HOST": host}
	if opts.DataDir != "" {
		env["CHARM_DATA_DIR"] = opts.DataDir
	}
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			return "", fmt.Errorf("set %s: %w", k, err)
		}
	}
	return host, nil
}

func open(opts Options) (*Client, error) {
	host, err := ConfigureEnv(opts)
	if err != nil {
		return nil, err
	}

	db, err := kv.OpenWithDefaultsFallback(DBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv %q: %w", DBName, err)
	}

	c := &Client{db: db, host: host, autoSync: opts.AutoSync}
	c.Store = kvstore.New(writeGuard{db},
		kvstore.WithCloser(c.closeDB),
		kvstore.WithAfterWrite(c.pushIfAuto),
	)

	if !db.IsReadOnly() {
		// Best effort: an offline start still serves local data.
		_ = db.Sync()
	}
	return c, nil
}

// Host returns the charm server this client talks to.
func (c *Client) Host() string { return c.host }

// IsReadOnly reports whether another process holds the database lock.
func (c *Client) IsReadOnly() bool { return c.db.IsReadOnly() }

// Sync pulls and pushes changes. It is a no-op in read-only mode.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db.IsReadOnly() {
		return nil
	}
	return c.db.Sync()
}

// ID returns the account ID of the linked charm user.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("charm client: %w", err)
	}
	return cc.ID()
}

// Reset drops the local database and restores it from the server.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Reset()
}

func (c *Client) pushIfAuto() {
	if c.autoSync {
		// A failed push leaves the write local until the next sync.
		_ = c.Sync()
	}
}

func (c *Client) closeDB() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// lockableKV is the part of *kv.KV the write guard needs.
type lockableKV interface {
	IsReadOnly() bool
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
}

// writeGuard adapts the charm database to kvstore.KV and turns writes
// into ErrReadOnly while the lock is held elsewhere.
type writeGuard struct {
	db lockableKV
}

func (g writeGuard) Set(key, value []byte) error {
	if g.db.IsReadOnly() {
		return ErrReadOnly
	}
	return g.db.Set(key, value)
}

func (g writeGuard) Get(key []byte) ([]byte, error) { return g.db.Get(key) }

func (g writeGuard) Delete(key []byte) error {
	if g.db.IsReadOnly() {
		return ErrReadOnly
	}
	return g.db.Delete(key)
}

func (g writeGuard) Keys() ([][]byte, error) { return g.db.Keys() }
