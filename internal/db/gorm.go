package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DetectDriver infere o driver pelo esquema da DATABASE_URL.
func DetectDriver(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	default:
		return DriverSQLite
	}
}

// sqliteDSN remove o prefixo sqlite:// e liga as FKs, que o sqlite deixa
// desligadas por padrão.
func sqliteDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// OpenGorm abre o banco relacional. TranslateError faz o gorm devolver
// ErrDuplicatedKey/ErrForeignKeyViolated para violações de constraint.
func OpenGorm(driver, url string, pool PoolOptions, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(url)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(url))
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if log != nil {
		log.Info("sql_store_opened", "driver", driver, "max_open_conns", pool.MaxOpenConns)
	}
	return gdb, nil
}

// Migrate cria as tabelas a partir dos modelos. Só cria o que falta; não há
// migrações posteriores.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Company{}, &models.Obligation{})
}

func CloseGorm(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
