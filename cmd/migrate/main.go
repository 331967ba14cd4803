package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "迁移文件所在目录")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", sl.Err(err))
		os.Exit(1)
	}
	if cfg.Database.Driver != "postgres" {
		// sqlite 在打开时自动建表
		logger.Error("迁移只支持 postgres", slog.String("driver", cfg.Database.Driver))
		os.Exit(1)
	}

	if err := runMigration(logger, action, *migrationsDir, cfg.Database.DSN); err != nil {
		logger.Error("迁移失败", slog.String("action", action), sl.Err(err))
		os.Exit(1)
	}

	logger.Info("迁移完成", slog.String("action", action))
}

func runMigration(logger *slog.Logger, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Info("尚未执行任何迁移")
				return nil
			}
			return err
		}
		logger.Info("当前版本", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
