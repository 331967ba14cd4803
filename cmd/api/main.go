package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/events"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/flash"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", sl.Err(err))
		return
	}

	/**********************************************
	 * 创建 metrics
	 **********************************************/
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	/**********************************************
	 * 连接数据库并创建 repository
	 **********************************************/
	var (
		repo     repository.EmployeeRepository
		dbPinger handler.PingFunc
	)
	queryTimeout := time.Duration(cfg.Database.QueryTimeout) * time.Second

	switch cfg.Database.Driver {
	case "sqlite":
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		db, err := repository.OpenSQLite(ctx, cfg.Database.SQLitePath)
		cancel()
		if err != nil {
			logger.Error("无法打开 sqlite 数据库", sl.Err(err))
			return
		}
		defer db.Close()

		repo = repository.NewSQLiteRepository(db, queryTimeout, m)
		dbPinger = db.PingContext
	default:
		dbpool, err := repository.NewDatabase(context.Background(), cfg)
		if err != nil {
			logger.Error("无法连接到数据库", sl.Err(err))
			return
		}
		defer dbpool.Close()

		repo = repository.NewPostgresRepository(dbpool, queryTimeout, m)
		dbPinger = dbpool.Ping
	}
	logger.Info("已连接到数据库", slog.String("driver", cfg.Database.Driver))

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", sl.Err(err))
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", sl.Err(err))
		return
	}
	defer ch.Close()

	// 声明队列
	if err := events.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		logger.Error("无法声明队列", sl.Err(err))
		return
	}
	publisher := events.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second, m)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		logger.Error("无法连接到 redis", sl.Err(err))
		return
	}
	cancel()

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, flash.NewRedisStore(rdb), publisher, m)
	if err != nil {
		logger.Error("无法创建 handler", sl.Err(err))
		return
	}
	handler.RegisterRoutes()
	handler.AddHealthCheck("database", dbPinger)
	handler.AddHealthCheck("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	handler.Mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", sl.Err(err))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", sl.Err(err))
	}
	logger.Info("服务器已成功关闭")
}
