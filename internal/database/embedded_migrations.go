package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*/*.sql
var EmbeddedMigrationsFS embed.FS

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
	FilePath    string
}

// getEmbeddedMigrationFiles reads and parses all migration files of one dialect directory
func getEmbeddedMigrationFiles(dir string) ([]*MigrationFile, error) {
	files, err := fs.ReadDir(EmbeddedMigrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory %s: %w", dir, err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			return nil, err
		}
		migration.FilePath = path.Join(dir, f.Name())
		migrations = append(migrations, migration)
	}

	// Sort by version number
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFileName parses NNNN_description.sql
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	base := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid migration filename format: %s (expected format: NNNN_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in filename %s: %w", fileName, err)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[1],
	}, nil
}

// readEmbeddedMigrationContent reads the content of an embedded migration file
func readEmbeddedMigrationContent(migration *MigrationFile) (string, error) {
	content, err := fs.ReadFile(EmbeddedMigrationsFS, migration.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded migration file %s: %w", migration.FilePath, err)
	}
	return string(content), nil
}
