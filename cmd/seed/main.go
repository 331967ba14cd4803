package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
)

func main() {
	var op int
	var n int
	var emailSource string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 从 CSV 文件导入员工)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&emailSource, "email-source", "pinyin", "随机员工的邮箱来源 (pinyin 或 random)")
	flag.StringVar(&file, "file", "", "要导入的 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", sl.Err(err))
		os.Exit(1)
	}

	// 创建 repository
	var repo repository.EmployeeRepository
	queryTimeout := time.Duration(cfg.Database.QueryTimeout) * time.Second
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := repository.OpenSQLite(context.Background(), cfg.Database.SQLitePath)
		if err != nil {
			logger.Error("无法打开 sqlite 数据库", sl.Err(err))
			return
		}
		defer db.Close()
		repo = repository.NewSQLiteRepository(db, queryTimeout, nil)
	default:
		dbpool, err := repository.NewDatabase(context.Background(), cfg)
		if err != nil {
			logger.Error("无法连接到数据库", sl.Err(err))
			return
		}
		defer dbpool.Close()
		repo = repository.NewPostgresRepository(dbpool, queryTimeout, nil)
	}

	ctx := context.Background()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		if emailSource != "pinyin" && emailSource != "random" {
			slog.Error("邮箱来源非法", slog.String("email-source", emailSource))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee(cfg.Email.Domain, emailSource == "random")
			if err := repo.CreateEmployee(ctx, employee); err != nil {
				slog.Error("无法插入员工", slog.String("email", employee.Email), sl.Err(err))
				continue
			}

			cnt++
		}

		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 2:
		if file == "" {
			slog.Error("请指定 CSV 文件")
			return
		}

		report, err := seed.ImportCSVFile(ctx, repo, file)
		if err != nil {
			slog.Error("导入失败", sl.Err(err))
			return
		}

		slog.Info("导入员工成功", slog.Int("imported", report.Imported), slog.Int("skipped", report.Skipped))
	default:
		slog.Error("指定的操作非法")
	}
}
