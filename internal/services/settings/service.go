// Package settings orchestrates persistence of the canonical snapshot:
// load-with-migration, sanitized writes, untrusted imports, exports and
// backups. It is the only layer that touches the blob store; everything it
// delegates to is pure.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"scriptdeck/internal/history"
	"scriptdeck/internal/models"
	"scriptdeck/internal/normalize"
	"scriptdeck/internal/services/backup"
	"scriptdeck/internal/services/blobstore"
	"scriptdeck/internal/validate"
)

// BlobName is the primary settings blob, read and replaced wholesale.
const BlobName = "settings.json"

// Service defines the settings persistence interface. Callers must
// serialize writes: at most one in-flight Save/Backup at a time.
type Service interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, snapshot models.Settings) error
	Import(data []byte) (models.Settings, int, error)
	Export(ctx context.Context) ([]byte, error)
	Backup(ctx context.Context) (string, error)
	History(ctx context.Context, ref string) ([]models.HistoryEntry, models.HistoryStats, error)
}

// Impl implements the settings Service interface.
type Impl struct {
	store     blobstore.Store
	backupSvc backup.Service
	opts      normalize.Options
	logger    zerolog.Logger
}

// New creates a new settings service.
func New(logger zerolog.Logger, store blobstore.Store, backupSvc backup.Service) *Impl {
	return NewWithOptions(logger, store, backupSvc, normalize.DefaultOptions())
}

// NewWithOptions creates a settings service with injected migration
// options (for testing with deterministic ids and versions).
func NewWithOptions(logger zerolog.Logger, store blobstore.Store, backupSvc backup.Service, opts normalize.Options) *Impl {
	return &Impl{store: store, backupSvc: backupSvc, opts: opts, logger: logger}
}

// Load reads the primary blob and migrates it to the current schema.
// Every load migrates regardless of the stored version, so any historical
// shape converges to the canonical one. A missing blob yields defaults.
func (s *Impl) Load(ctx context.Context) (models.Settings, error) {
	data, err := s.store.Read(ctx, BlobName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Msg("no stored settings, using defaults")
			return normalize.Migrate(nil, s.opts), nil
		}
		return models.Settings{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Settings{}, validate.WrapError(validate.KindInvalidJSON, err, "decoding stored settings")
	}

	migrated := normalize.Migrate(raw, s.opts)
	if from := normalize.DetectVersion(raw); from != 0 && from != s.opts.SchemaVersion {
		s.logger.Info().Int("from", from).Int("to", migrated.SchemaVersion).Msg("settings migrated")
	}
	return migrated, nil
}

// Save sanitizes the snapshot and replaces the primary blob wholesale.
func (s *Impl) Save(ctx context.Context, snapshot models.Settings) error {
	data, err := marshal(normalize.SanitizeForWrite(snapshot, s.opts))
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, BlobName, data); err != nil {
		return err
	}

	s.logger.Debug().Int("bytes", len(data)).Msg("settings saved")
	return nil
}

// Import validates an untrusted payload, migrates it and reports the
// originating schema version (0 when absent or already current). Nothing
// is persisted; the caller decides whether to Save the result.
func (s *Impl) Import(data []byte) (models.Settings, int, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Settings{}, 0, validate.WrapError(validate.KindInvalidJSON, err, "decoding import payload")
	}

	if err := validate.Payload(raw); err != nil {
		return models.Settings{}, 0, err
	}

	m := raw.(map[string]any)
	migrated := normalize.Migrate(m, s.opts)

	from := normalize.DetectVersion(m)
	if from == s.opts.SchemaVersion {
		from = 0
	}
	return migrated, from, nil
}

// Export serializes the sanitized current snapshot.
func (s *Impl) Export(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return marshal(normalize.SanitizeForWrite(snapshot, s.opts))
}

// Backup exports the current snapshot into a timestamped blob, then prunes
// stale backups per the snapshot's retention policy. Prune failures are
// reported by the backup service but never undo the written backup.
func (s *Impl) Backup(ctx context.Context) (string, error) {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	data, err := marshal(normalize.SanitizeForWrite(snapshot, s.opts))
	if err != nil {
		return "", err
	}

	name, err := s.backupSvc.Create(ctx, data)
	if err != nil {
		return "", err
	}

	if _, err := s.backupSvc.Prune(ctx, snapshot.Backup.Retention); err != nil {
		s.logger.Warn().Err(err).Msg("backup retention prune failed")
	}
	return name, nil
}

// History returns a card's execution log newest first together with its
// derived duration statistics. The card is matched by business id or stored
// id first, then by title.
func (s *Impl) History(ctx context.Context, ref string) ([]models.HistoryEntry, models.HistoryStats, error) {
	snapshot, err := s.Load(ctx)
	if err != nil {
		return nil, models.HistoryStats{}, err
	}

	card, found := findCard(snapshot.Cards, ref)
	if !found {
		return nil, models.HistoryStats{}, fmt.Errorf("no card matches %q", ref)
	}
	if card.History == nil {
		return []models.HistoryEntry{}, models.HistoryStats{}, nil
	}

	entries := history.NewestFirst(*card.History)
	return entries, history.Stats(entries), nil
}

func findCard(cards []models.Card, ref string) (models.Card, bool) {
	for _, c := range cards {
		if c.BusinessID == ref || c.ID == ref {
			return c, true
		}
	}
	for _, c := range cards {
		if c.Title == ref {
			return c, true
		}
	}
	return models.Card{}, false
}

func marshal(snapshot models.Settings) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}
