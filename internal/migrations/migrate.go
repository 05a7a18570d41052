package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

const migrationsTable = "schema_migrations_duels"

// Run applies the embedded migrations. A database that already has the
// wallets table but no migrate metadata is baselined to the latest version
// first.
func Run(databaseURL string, log *zap.Logger) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}
	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if baseline(sqlDB) {
		if latest := LatestVersion(); latest > 0 {
			log.Info("baselining existing schema", zap.Int("version", latest))
			if err := m.Force(latest); err != nil {
				log.Warn("force version failed", zap.Int("version", latest), zap.Error(err))
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	log.Info("migrations applied")
	return nil
}

func baseline(db *sql.DB) bool {
	var walletsExist, metaExist bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'wallets')`).Scan(&walletsExist); err != nil || !walletsExist {
		return false
	}
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, migrationsTable).Scan(&metaExist); err != nil {
		return false
	}
	return !metaExist
}

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_`)

// LatestVersion returns the highest numeric prefix among embedded files.
func LatestVersion() int {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return 0
	}
	var max int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := versionPrefix.FindStringSubmatch(e.Name())
		if len(m) < 2 {
			continue
		}
		if v, _ := strconv.Atoi(m[1]); v > max {
			max = v
		}
	}
	return max
}
