package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository 是基于 sqlite 的员工仓储实现，用于本地开发和测试
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	metrics      *metrics.Metrics
}

func NewSQLiteRepository(db *sql.DB, queryTimeout time.Duration, m *metrics.Metrics) *SQLiteRepository {
	return &SQLiteRepository{
		db:           db,
		queryTimeout: queryTimeout,
		metrics:      m,
	}
}

func (r *SQLiteRepository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	defer observeQuery(r.metrics, "create_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `
		INSERT INTO employees (first_name, last_name, email, department, position)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	args := []any{employee.FirstName, employee.LastName, employee.Email, employee.Department, employee.Position}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&employee.ID); err != nil {
		return translateSQLiteError("create employee", err)
	}

	return nil
}

func (r *SQLiteRepository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	defer observeQuery(r.metrics, "get_employee_by_id")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, translateSQLiteError("get employee", err)
	}

	return employee, nil
}

func (r *SQLiteRepository) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	defer observeQuery(r.metrics, "get_all_employees")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.listEmployees(ctx, "list employees", nil)
}

func (r *SQLiteRepository) UpdateEmployee(ctx context.Context, id int64, employee *domain.Employee) error {
	defer observeQuery(r.metrics, "update_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// 路径中的 id 优先于请求体中的 id
	employee.ID = id

	query := `
		UPDATE employees
		SET first_name = ?, last_name = ?, email = ?, department = ?, position = ?
		WHERE id = ?
	`

	args := []any{employee.FirstName, employee.LastName, employee.Email, employee.Department, employee.Position, id}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateSQLiteError("update employee", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return translateSQLiteError("update employee", err)
	}
	if affected == 0 {
		return notFound(id)
	}

	return nil
}

func (r *SQLiteRepository) DeleteEmployee(ctx context.Context, id int64) error {
	defer observeQuery(r.metrics, "delete_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id); err != nil {
		return translateSQLiteError("delete employee", err)
	}

	return nil
}

// SearchEmployees 在 Go 中完成匹配，sqlite 的 lower() 只处理 ASCII 字符
func (r *SQLiteRepository) SearchEmployees(ctx context.Context, keyword string) ([]*domain.Employee, error) {
	defer observeQuery(r.metrics, "search_employees")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.listEmployees(ctx, "search employees", func(e *domain.Employee) bool {
		return e.MatchesKeyword(keyword)
	})
}

func (r *SQLiteRepository) listEmployees(ctx context.Context, op string, keep func(*domain.Employee) bool) ([]*domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, translateSQLiteError(op, err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, translateSQLiteError(op, err)
		}
		if keep == nil || keep(employee) {
			employees = append(employees, employee)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, translateSQLiteError(op, err)
	}

	return employees, nil
}

func translateSQLiteError(op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return domain.ErrEmailAlreadyExists
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
