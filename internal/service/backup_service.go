package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"readinggame/internal/logger"
	"readinggame/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the portable snapshot of one store's content
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Source     string            `json:"source"`
	Categories []models.Category `json:"categories"`
	Groups     []models.Group    `json:"groups"`
	Words      []models.Word     `json:"words"`
}

// ImportStats counts what an import wrote and what it left alone
type ImportStats struct {
	Categories int
	Groups     int
	Words      int
	Skipped    int
}

// BackupService moves content between stores. Records keep their ids, so parents
// are always written before children.
type BackupService struct {
	log *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(log *logger.Logger) *BackupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &BackupService{log: log.With("component", "backup")}
}

// Snapshot reads every record from src
func (s *BackupService) Snapshot(ctx context.Context, src GameStore, source string) (*BackupData, error) {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Source:     source,
	}

	var err error
	if backup.Categories, err = src.GetCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}
	if backup.Groups, err = src.GetGroups(ctx); err != nil {
		return nil, fmt.Errorf("failed to export groups: %w", err)
	}
	if backup.Words, err = src.GetWords(ctx); err != nil {
		return nil, fmt.Errorf("failed to export words: %w", err)
	}
	return backup, nil
}

// Export writes a snapshot of src as indented JSON
func (s *BackupService) Export(ctx context.Context, src GameStore, source string, w io.Writer) (*BackupData, error) {
	backup, err := s.Snapshot(ctx, src, source)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("Exported content", "source", source,
		"categories", len(backup.Categories), "groups", len(backup.Groups), "words", len(backup.Words))
	return backup, nil
}

// ExportFile is Export to a file path
func (s *BackupService) ExportFile(ctx context.Context, src GameStore, source, outputPath string) (*BackupData, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()
	return s.Export(ctx, src, source, file)
}

// Import decodes a backup from r and restores it into dst
func (s *BackupService) Import(ctx context.Context, dst GameStore, r io.Reader) (*ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	return s.Restore(ctx, dst, &backup)
}

// ImportFile is Import from a file path
func (s *BackupService) ImportFile(ctx context.Context, dst GameStore, inputPath string) (*ImportStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.Import(ctx, dst, file)
}

// Restore writes the backup into dst in dependency order. Records whose id already
// exists in dst are skipped, so a restore can be re-run after a partial failure.
func (s *BackupService) Restore(ctx context.Context, dst GameStore, backup *BackupData) (*ImportStats, error) {
	stats := &ImportStats{}

	for _, c := range backup.Categories {
		existing, err := dst.GetCategory(ctx, c.ID)
		if err != nil {
			return stats, fmt.Errorf("failed to check category %s: %w", c.ID, err)
		}
		if existing != nil {
			stats.Skipped++
			continue
		}
		if _, err := dst.AddCategory(ctx, c); err != nil {
			return stats, fmt.Errorf("failed to import category %s: %w", c.ID, err)
		}
		stats.Categories++
	}

	for _, g := range backup.Groups {
		existing, err := dst.GetGroup(ctx, g.ID)
		if err != nil {
			return stats, fmt.Errorf("failed to check group %s: %w", g.ID, err)
		}
		if existing != nil {
			stats.Skipped++
			continue
		}
		if _, err := dst.AddGroup(ctx, g); err != nil {
			return stats, fmt.Errorf("failed to import group %s: %w", g.ID, err)
		}
		stats.Groups++
	}

	for _, w := range backup.Words {
		existing, err := dst.GetWord(ctx, w.ID)
		if err != nil {
			return stats, fmt.Errorf("failed to check word %s: %w", w.ID, err)
		}
		if existing != nil {
			stats.Skipped++
			continue
		}
		if _, err := dst.AddWord(ctx, w); err != nil {
			return stats, fmt.Errorf("failed to import word %s: %w", w.ID, err)
		}
		stats.Words++
	}

	s.log.Info("Imported content", "categories", stats.Categories, "groups", stats.Groups,
		"words", stats.Words, "skipped", stats.Skipped)
	return stats, nil
}

// Transfer copies everything in src into dst
func (s *BackupService) Transfer(ctx context.Context, src, dst GameStore, source string) (*ImportStats, error) {
	backup, err := s.Snapshot(ctx, src, source)
	if err != nil {
		return nil, err
	}
	return s.Restore(ctx, dst, backup)
}
