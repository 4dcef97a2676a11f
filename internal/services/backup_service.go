package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"projectpan/internal/domain"
	"projectpan/internal/repos"
)

const (
	BackupVersion  = 1
	backupFilename = "projectpan-backup.json"
)

// BackupService exports the whole database as a single JSON document and
// restores from the same shape.
type BackupService struct {
	Repo *repos.BackupRepo
}

func NewBackupService(repo *repos.BackupRepo) *BackupService {
	return &BackupService{Repo: repo}
}

func (s *BackupService) Export(now time.Time) (domain.Backup, error) {
	data, err := s.Repo.Export()
	if err != nil {
		return domain.Backup{}, err
	}
	return domain.Backup{
		Version:   BackupVersion,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Data:      &data,
	}, nil
}

// Restore replaces all data with the backup content, preserving original
// ids. Runs atomically; see BackupRepo.Replace.
func (s *BackupService) Restore(b domain.Backup) (domain.RestoreCounts, error) {
	if b.Version == 0 || b.Data == nil {
		return domain.RestoreCounts{}, domain.ErrInvalidBackup
	}
	if err := s.Repo.Replace(*b.Data); err != nil {
		return domain.RestoreCounts{}, err
	}
	return domain.RestoreCounts{
		Categories: len(b.Data.Categories),
		Products:   len(b.Data.Products),
		UsageLogs:  len(b.Data.UsageLogs),
	}, nil
}

// WriteSnapshot exports and writes the backup document to dir, returning
// the file path. Stands in for the object-store upload of the hosted
// deployment; the transport itself is out of scope.
func (s *BackupService) WriteSnapshot(dir string, now time.Time) (string, domain.Backup, error) {
	b, err := s.Export(now)
	if err != nil {
		return "", domain.Backup{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.Backup{}, err
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", domain.Backup{}, err
	}
	path := filepath.Join(dir, backupFilename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", domain.Backup{}, err
	}
	return path, b, nil
}
