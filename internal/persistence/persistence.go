package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSettings = "settings"
	BucketGrants   = "grants"

	// SettingsRecordKey names the single record holding the full configuration.
	SettingsRecordKey = "dell-controller-settings"

	openTimeout = 1 * time.Minute
)

// Error is returned when the settings database cannot be read or written.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("settings store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// SettingsStore is the durable record of the user configuration.
type SettingsStore interface {
	Init() error
	Path() string

	// Load returns the persisted configuration, or the defaults if there is none or it is unreadable.
	Load() settings.Configuration
	// Update merges a single key into the latest persisted record and returns the result.
	Update(key string, value any) (settings.Configuration, error)
	// Apply merges several keys into the latest persisted record in one transaction.
	Apply(changes ...settings.Change) (settings.Configuration, error)
	// Save replaces the persisted record.
	Save(config settings.Configuration) error

	LoadGrant(name string) (granted bool, found bool, err error)
	SaveGrant(name string, granted bool) error
}

type persistence struct {
	dbPath string
	// serializes database access within this process, bbolt locks the file across processes
	mu sync.Mutex
}

func NewPersistence(dbPath string) SettingsStore {
	return &persistence{
		dbPath: dbPath,
	}
}

func (p *persistence) Path() string {
	return p.dbPath
}

func (p *persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return &Error{Op: "init", Err: err}
		}
	}
	return nil
}

func (p *persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p *persistence) withDb(op string, fn func(db *bolt.DB) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := p.openPersistence()
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	if err := fn(db); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

func (p *persistence) Load() settings.Configuration {
	var config settings.Configuration
	err := p.withDb("load", func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			config = readSettings(tx)
			return nil
		})
	})
	if err != nil {
		ui.Warning("Unable to load settings, using defaults: %v", err)
		return settings.Default()
	}
	return config
}

func (p *persistence) Update(key string, value any) (settings.Configuration, error) {
	return p.Apply(settings.Set(key, value))
}

func (p *persistence) Apply(changes ...settings.Change) (settings.Configuration, error) {
	var result settings.Configuration
	err := p.withDb("update", func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			current := readSettings(tx)
			updated, err := current.Apply(changes...)
			if err != nil {
				return err
			}
			if err := writeSettings(tx, updated); err != nil {
				return err
			}
			result = updated
			return nil
		})
	})
	return result, err
}

func (p *persistence) Save(config settings.Configuration) error {
	if err := config.Validate(); err != nil {
		return &Error{Op: "save", Err: err}
	}
	return p.withDb("save", func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			return writeSettings(tx, config)
		})
	})
}

// readSettings returns the stored record merged over the defaults.
// Unreadable records are deleted so the next write starts from a clean state.
func readSettings(tx *bolt.Tx) settings.Configuration {
	b := tx.Bucket([]byte(BucketSettings))
	if b == nil {
		ui.Debug("No settings bucket found, using defaults")
		return settings.Default()
	}
	data := b.Get([]byte(SettingsRecordKey))
	if data == nil {
		ui.Debug("No settings record found, using defaults")
		return settings.Default()
	}

	config := settings.Default()
	if err := json.Unmarshal(data, &config); err != nil {
		ui.Warning("Persisted settings are corrupt, using defaults: %v", err)
		if err := b.Delete([]byte(SettingsRecordKey)); err != nil {
			ui.Warning("Unable to delete corrupt settings: %v", err)
		}
		return settings.Default()
	}

	if err := config.Validate(); err != nil {
		ui.Warning("Persisted settings contain invalid values, replacing them with defaults: %v", err)
		config = config.Sanitize()
	}
	return config
}

func writeSettings(tx *bolt.Tx, config settings.Configuration) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	b, err := tx.CreateBucketIfNotExists([]byte(BucketSettings))
	if err != nil {
		return fmt.Errorf("create bucket: %s", err)
	}
	return b.Put([]byte(SettingsRecordKey), data)
}

func (p *persistence) LoadGrant(name string) (granted bool, found bool, err error) {
	err = p.withDb("load grant", func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(BucketGrants))
			if b == nil {
				return nil
			}
			data := b.Get([]byte(name))
			if data == nil {
				return nil
			}
			if err := json.Unmarshal(data, &granted); err != nil {
				ui.Warning("Ignoring corrupt grant %s: %v", name, err)
				return nil
			}
			found = true
			return nil
		})
	})
	return granted, found, err
}

func (p *persistence) SaveGrant(name string, granted bool) error {
	data, err := json.Marshal(granted)
	if err != nil {
		return err
	}
	return p.withDb("save grant", func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists([]byte(BucketGrants))
			if err != nil {
				return fmt.Errorf("create bucket: %s", err)
			}
			return b.Put([]byte(name), data)
		})
	})
}
