package manifest

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minin64/objexport/internal/config"
)

// ExportRecord is one completed export run. The config snapshot keeps the
// exact settings that produced the files.
type ExportRecord struct {
	gorm.Model
	Mode        string `gorm:"index"`
	Variable    string `gorm:"index"`
	SceneFile   string
	SourceFile  string
	HeaderFile  string
	ObjectCount int
	FrameStart  int
	FrameEnd    int
	DurationMs  int64
	Config      datatypes.JSON
}

// Manager handles manifest database connections and operations.
type Manager struct {
	DB            *gorm.DB
	SqlDB         *sql.DB
	IsValid       bool
	LocalFallback bool
	Logger        zerolog.Logger

	cfg        config.DBConfig
	sqlitePath string
}

// NewManager creates a new manifest manager. sqlitePath is the fallback
// database file; empty means in-memory.
func NewManager(log zerolog.Logger, cfg config.DBConfig, sqlitePath string) *Manager {
	return &Manager{
		Logger:     log,
		cfg:        cfg,
		sqlitePath: sqlitePath,
	}
}

// Connect establishes a database connection, falling back to SQLite if
// Postgres fails or does not answer a ping.
func (m *Manager) Connect() error {
	var err error

	m.DB, err = m.openPostgres()
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		if err := m.useSqlite(); err != nil {
			return err
		}
	}

	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}

	if err := m.SqlDB.Ping(); err != nil {
		m.Logger.Error().Err(err).Msg("Failed to validate connection, trying SQLite")
		if err := m.useSqlite(); err != nil {
			return err
		}
		if m.SqlDB, err = m.DB.DB(); err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
	} else if !m.LocalFallback {
		m.Logger.Info().Msg("Connected to database")
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.IsValid = true
	return nil
}

func (m *Manager) useSqlite() error {
	m.LocalFallback = true
	db, err := m.openSqlite(m.sqlitePath)
	if err != nil || db == nil {
		m.IsValid = false
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	m.DB = db
	return nil
}

// openPostgres returns a connection to the Postgres manifest database.
func (m *Manager) openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password, m.cfg.Database)

	m.Logger.Debug().Msgf("Connecting to Postgres DB at '%s'", dsn)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// openSqlite returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) openSqlite(path string) (*gorm.DB, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if path != "" {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	} else {
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Setup migrates the manifest schema.
func (m *Manager) Setup() error {
	if err := m.DB.AutoMigrate(&ExportRecord{}); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	m.Logger.Info().Msg("Manifest database ready")
	return nil
}

// Record stores one export run.
func (m *Manager) Record(rec *ExportRecord) error {
	if !m.IsValid {
		return fmt.Errorf("manifest db not valid")
	}
	if err := m.DB.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	m.Logger.Debug().
		Str("variable", rec.Variable).
		Int64("durationMs", rec.DurationMs).
		Msg("Recorded export")
	return nil
}

// Recent returns the most recent export runs, newest first.
func (m *Manager) Recent(limit int) ([]ExportRecord, error) {
	if !m.IsValid {
		return nil, fmt.Errorf("manifest db not valid")
	}
	var recs []ExportRecord
	err := m.DB.Order("created_at desc").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	return recs, nil
}

// Close releases the underlying connection.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}
