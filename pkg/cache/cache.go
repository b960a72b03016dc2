// Package cache persists LLM responses so repeated analyses of an
// unchanged project do not re-bill the provider.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries     int64     `json:"entries"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	APICalls    int64     `json:"api_calls"`
	LastUpdated time.Time `json:"last_updated"`
}

// Cache is a sqlite-backed store of generation responses keyed by
// sha256(prompt) + provider + model.
type Cache struct {
	db     *sql.DB
	logger *logrus.Logger
}

// New opens (creating if needed) the cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db, logger: logger}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// SetLogLevel sets the logging level.
func (c *Cache) SetLogLevel(level logrus.Level) {
	c.logger.SetLevel(level)
}

func (c *Cache) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	if _, err := c.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	c.logger.Debug("cache schema ready")
	return nil
}

// Get returns the cached response for a prompt, if present.
func (c *Cache) Get(prompt, provider, model string) (string, bool) {
	hash := hashPrompt(prompt)

	var response string
	err := c.db.QueryRow(
		`SELECT response FROM responses WHERE prompt_hash = ? AND provider = ? AND model = ?`,
		hash, provider, model,
	).Scan(&response)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Warnf("cache lookup failed: %v", err)
		}
		c.bump("misses")
		return "", false
	}

	c.db.Exec(`UPDATE responses SET last_accessed = CURRENT_TIMESTAMP
		WHERE prompt_hash = ? AND provider = ? AND model = ?`, hash, provider, model)
	c.bump("hits")
	return response, true
}

// Put stores a fresh response and counts the API call that produced it.
func (c *Cache) Put(prompt, provider, model, response string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO responses (prompt_hash, provider, model, response, last_accessed)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		hashPrompt(prompt), provider, model, response,
	)
	if err != nil {
		return fmt.Errorf("saving response to cache: %w", err)
	}

	c.bump("api_calls")
	return nil
}

// GetStats returns cache statistics.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats
	err := c.db.QueryRow(
		`SELECT hits, misses, api_calls, last_updated FROM cache_stats WHERE id = 1`,
	).Scan(&stats.Hits, &stats.Misses, &stats.APICalls, &stats.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}

	c.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&stats.Entries)
	return &stats, nil
}

// Clear removes all cached responses and resets the counters.
func (c *Cache) Clear() error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("clearing responses: %w", err)
	}
	if _, err := tx.Exec(`UPDATE cache_stats SET hits=0, misses=0, api_calls=0,
		last_updated=CURRENT_TIMESTAMP WHERE id=1`); err != nil {
		return fmt.Errorf("resetting stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	c.logger.Info("cache cleared")
	return nil
}

func (c *Cache) bump(column string) {
	c.db.Exec(fmt.Sprintf(
		`UPDATE cache_stats SET %s = %s + 1, last_updated = CURRENT_TIMESTAMP WHERE id = 1`,
		column, column))
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%x", sum)
}
