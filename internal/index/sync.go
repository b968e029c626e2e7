package index

import (
	"log/slog"
)

// SyncStats counts the changes made by Sync.
type SyncStats struct {
	Indexed int
	Removed int
}

// Sync brings the index up to date with rows:
//   - new/changed rows (by checksum) are upserted
//   - indexed notes missing from rows are deleted
func Sync(db NoteIndex, rows []NoteRow, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats
	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	live := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		live[r.ID] = struct{}{}
		if cs, ok := checksums[r.ID]; ok && cs == r.Checksum {
			continue
		}
		if err := db.UpsertNote(r); err != nil {
			logger.Warn("sync: index failed", slog.String("id", r.ID), slog.String("error", err.Error()))
			continue
		}
		stats.Indexed++
	}

	for id := range checksums {
		if _, ok := live[id]; ok {
			continue
		}
		if err := db.DeleteNote(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("id", id))
	}
	return stats, nil
}
