package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
)

const uniqueViolationCode = "23505"

// PostgresRepository 是基于 PostgreSQL 的员工仓储实现
type PostgresRepository struct {
	db           Database
	queryTimeout time.Duration
	metrics      *metrics.Metrics
}

func NewPostgresRepository(db Database, queryTimeout time.Duration, m *metrics.Metrics) *PostgresRepository {
	return &PostgresRepository{
		db:           db,
		queryTimeout: queryTimeout,
		metrics:      m,
	}
}

func (r *PostgresRepository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	defer observeQuery(r.metrics, "create_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `
		INSERT INTO employees (first_name, last_name, email, department, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	args := []any{employee.FirstName, employee.LastName, employee.Email, employee.Department, employee.Position}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&employee.ID); err != nil {
		return translatePgError("create employee", err)
	}

	return nil
}

func (r *PostgresRepository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	defer observeQuery(r.metrics, "get_employee_by_id")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, translatePgError("get employee", err)
	}

	return employee, nil
}

func (r *PostgresRepository) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	defer observeQuery(r.metrics, "get_all_employees")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`

	return r.queryEmployees(ctx, "list employees", query)
}

func (r *PostgresRepository) UpdateEmployee(ctx context.Context, id int64, employee *domain.Employee) error {
	defer observeQuery(r.metrics, "update_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// 路径中的 id 优先于请求体中的 id
	employee.ID = id

	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, department = $4, position = $5
		WHERE id = $6
	`

	args := []any{employee.FirstName, employee.LastName, employee.Email, employee.Department, employee.Position, id}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translatePgError("update employee", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}

	return nil
}

func (r *PostgresRepository) DeleteEmployee(ctx context.Context, id int64) error {
	defer observeQuery(r.metrics, "delete_employee")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `DELETE FROM employees WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return translatePgError("delete employee", err)
	}

	return nil
}

func (r *PostgresRepository) SearchEmployees(ctx context.Context, keyword string) ([]*domain.Employee, error) {
	defer observeQuery(r.metrics, "search_employees")()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// 使用 strpos 而不是 LIKE，避免关键字中的 % 和 _ 被当作通配符
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE strpos(lower(first_name), lower($1)) > 0
			OR strpos(lower(last_name), lower($1)) > 0
			OR strpos(lower(email), lower($1)) > 0
			OR strpos(lower(department), lower($1)) > 0
			OR strpos(lower(position), lower($1)) > 0
		ORDER BY id
	`

	return r.queryEmployees(ctx, "search employees", query, keyword)
}

func (r *PostgresRepository) queryEmployees(ctx context.Context, op string, query string, args ...any) ([]*domain.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(op, err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, translatePgError(op, err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(op, err)
	}

	return employees, nil
}

func translatePgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrEmailAlreadyExists
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
