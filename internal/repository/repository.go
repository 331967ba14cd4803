package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
)

// EmployeeRepository 是员工记录的持久化抽象。
//
// GetEmployeeByID 在记录不存在时返回包装了 domain.ErrEmployeeNotFound 的错误，
// UpdateEmployee 要求记录存在，DeleteEmployee 对不存在的 id 静默成功。
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetAllEmployees(ctx context.Context) ([]*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, employee *domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	SearchEmployees(ctx context.Context, keyword string) ([]*domain.Employee, error)
}

// Database 是 *pgxpool.Pool 和 pgxmock 共同满足的最小接口
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewDatabase 根据配置创建 PostgreSQL 连接池并 ping 一次
func NewDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnIdleTime = time.Duration(cfg.Database.MaxIdleTime) * time.Second

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection to PostgreSQL: %w", err)
	}

	// pgxpool 不会立即建立连接，因此需要显式地 ping 一下
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return dbpool, nil
}

type scanner interface {
	Scan(dest ...any) error
}

const employeeColumns = `id, first_name, last_name, email, department, position`

func scanEmployee(row scanner) (*domain.Employee, error) {
	employee := &domain.Employee{}
	dst := []any{&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email, &employee.Department, &employee.Position}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return employee, nil
}

func notFound(id int64) error {
	return fmt.Errorf("%w with id: %d", domain.ErrEmployeeNotFound, id)
}

// observeQuery 返回一个在查询结束时记录耗时的函数，metrics 为 nil 时不做任何事
func observeQuery(m *metrics.Metrics, queryType string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	}
}
