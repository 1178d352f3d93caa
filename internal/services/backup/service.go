// Package backup creates timestamped settings backups and prunes stale
// ones according to the retention policy.
package backup

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"scriptdeck/internal/identity"
	"scriptdeck/internal/models"
	"scriptdeck/internal/services/blobstore"
)

// Backup blob naming: fixed prefix, zero-padded local date and time, fixed
// suffix. The zero-padding makes lexicographic order chronological.
const (
	NamePrefix = "backup-"
	NameSuffix = ".json"
)

var namePattern = regexp.MustCompile(`^backup-[0-9]{8}-[0-9]{6}\.json$`)

// BlobName formats the backup blob name for a local timestamp.
func BlobName(t time.Time) string {
	return NamePrefix + t.Format("20060102-150405") + NameSuffix
}

// IsBackupName reports whether a blob name matches the backup pattern.
// Non-matching names are never deletion candidates.
func IsBackupName(name string) bool {
	return namePattern.MatchString(name)
}

// ClampRetention forces the retention count into the supported range.
func ClampRetention(retention int) int {
	if retention < models.MinBackupRetention {
		return models.MinBackupRetention
	}
	if retention > models.MaxBackupRetention {
		return models.MaxBackupRetention
	}
	return retention
}

// Stale decides which existing blobs to delete: the matching names beyond
// the retention count, oldest first. Pure; the caller performs deletions.
func Stale(names []string, retention int) []string {
	retention = ClampRetention(retention)

	matching := make([]string, 0, len(names))
	for _, name := range names {
		if IsBackupName(name) {
			matching = append(matching, name)
		}
	}
	sort.Strings(matching)

	if len(matching) <= retention {
		return []string{}
	}
	return matching[:len(matching)-retention]
}

// Service writes backups and applies retention.
type Service interface {
	Create(ctx context.Context, data []byte) (string, error)
	Prune(ctx context.Context, retention int) ([]string, error)
}

// Impl implements the backup Service interface.
type Impl struct {
	store  blobstore.Store
	clock  identity.Clock
	logger zerolog.Logger
}

// New creates a new backup service.
func New(logger zerolog.Logger, store blobstore.Store, clock identity.Clock) *Impl {
	return &Impl{store: store, clock: clock, logger: logger}
}

// Create writes one timestamped backup blob and returns its name.
func (s *Impl) Create(ctx context.Context, data []byte) (string, error) {
	name := BlobName(s.clock.Now())
	if err := s.store.Write(ctx, name, data); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	s.logger.Info().Str("backup", name).Int("bytes", len(data)).Msg("backup written")
	return name, nil
}

// Prune deletes stale backups beyond the retention count and returns the
// names it removed. A failed deletion of one stale blob is logged and
// skipped; it never aborts the prune or the backup that triggered it.
func (s *Impl) Prune(ctx context.Context, retention int) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	deleted := []string{}
	for _, name := range Stale(names, retention) {
		if err := s.store.Delete(ctx, name); err != nil {
			s.logger.Warn().Err(err).Str("backup", name).Msg("failed to delete stale backup")
			continue
		}
		deleted = append(deleted, name)
	}

	if len(deleted) > 0 {
		s.logger.Info().Strs("deleted", deleted).Msg("stale backups pruned")
	}
	return deleted, nil
}
