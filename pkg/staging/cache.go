package staging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draylabs/dray/pkg/log"
	"github.com/draylabs/dray/pkg/metrics"
	"github.com/draylabs/dray/pkg/types"
)

// Cache owns the node-local staging cache directory. It is process-wide by
// design: repeated staging of the same source file across many tasks on one
// node resolves to the same entry, so the file is only copied once per
// session. Construct it once at node start, inject it into every Strategy,
// and call Close at shutdown to reclaim the disk.
type Cache struct {
	root   string
	logger zerolog.Logger
}

// NewCache creates the cache rooted at dir, creating the directory if
// needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Cache{
		root:   dir,
		logger: log.WithComponent("staging-cache"),
	}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// PathFor computes the cache entry path for a source file within a session.
// The mapping is a pure function of (source, session, cache root): entries
// are keyed by a digest of the source path and grouped under a per-session
// subdirectory, so identical sources in the same session share one entry
// while distinct sessions never collide.
func (c *Cache) PathFor(source string, session types.Session) string {
	sum := sha256.Sum256([]byte(source))
	name := hex.EncodeToString(sum[:16]) + "-" + filepath.Base(source)
	return filepath.Join(c.root, string(session), name)
}

// Ensure returns the cache entry for source, populating it first if it does
// not exist yet. Population writes to a uniquely named temporary path and
// renames it into place; rename is atomic on POSIX filesystems, so a
// concurrent Ensure for the same (source, session) either sees the complete
// entry or creates its own complete copy and loses the rename race. A
// reader can never observe a partially written entry.
func (c *Cache) Ensure(ctx context.Context, source string, session types.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entry := c.PathFor(source, session)
	if _, err := os.Lstat(entry); err == nil {
		metrics.CacheHits.Inc()
		c.logger.Debug().Str("source", source).Str("entry", entry).Msg("cache hit")
		return entry, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat cache entry %s: %w", entry, err)
	}

	metrics.CacheMisses.Inc()
	if err := os.MkdirAll(filepath.Dir(entry), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache session directory: %w", err)
	}

	tmp := entry + ".tmp-" + uuid.New().String()
	if err := copyEntry(ctx, source, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("failed to populate cache entry for %s: %w", source, err)
	}
	if err := os.Rename(tmp, entry); err != nil {
		os.RemoveAll(tmp)
		// A concurrent Ensure may have won the race; its entry is complete.
		if _, statErr := os.Lstat(entry); statErr == nil {
			return entry, nil
		}
		return "", fmt.Errorf("failed to commit cache entry %s: %w", entry, err)
	}

	c.logger.Debug().Str("source", source).Str("entry", entry).Msg("cached source file")
	return entry, nil
}

// Remove deletes the given cache entries. Deletion is best effort: each
// failure is logged individually and the remaining entries are still
// attempted.
func (c *Cache) Remove(entries []string) {
	for _, entry := range entries {
		if err := os.RemoveAll(entry); err != nil {
			metrics.CacheCleanupFailures.Inc()
			c.logger.Warn().Err(err).Str("entry", entry).Msg("failed to remove cache entry")
		}
	}
}

// Close removes the entire cache directory. This is the explicit shutdown
// hook for the process-wide cache; call it once when the node stops
// accepting tasks.
func (c *Cache) Close() error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("failed to remove cache directory %s: %w", c.root, err)
	}
	return nil
}
