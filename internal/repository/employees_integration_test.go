//go:build integration

package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newPostgresContainerRepo(t *testing.T) *repository.PostgresRepository {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("employees"),
		postgres.WithUsername("employees"),
		postgres.WithPassword("employees"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/000001_create_employees_table.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	return repository.NewPostgresRepository(pool, 5*time.Second, nil)
}

func TestPostgresRepository_Integration(t *testing.T) {
	repo := newPostgresContainerRepo(t)
	ctx := context.Background()

	ada := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Department: "R&D", Position: "Engineer"}
	grace := &domain.Employee{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Department: "Navy", Position: "100% Admiral"}
	require.NoError(t, repo.CreateEmployee(ctx, ada))
	require.NoError(t, repo.CreateEmployee(ctx, grace))

	got, err := repo.GetEmployeeByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada, got)

	err = repo.CreateEmployee(ctx, &domain.Employee{FirstName: "Dup", LastName: "Dup", Email: "ada@x.com"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	found, err := repo.SearchEmployees(ctx, "LOVELACE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ada.ID, found[0].ID)

	found, err = repo.SearchEmployees(ctx, "%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, grace.ID, found[0].ID)

	update := &domain.Employee{ID: 777, FirstName: "Ada", LastName: "King", Email: "ada@x.com"}
	require.NoError(t, repo.UpdateEmployee(ctx, ada.ID, update))
	got, err = repo.GetEmployeeByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "King", got.LastName)
	assert.Equal(t, ada.ID, got.ID)

	require.ErrorIs(t, repo.UpdateEmployee(ctx, 9999, update), domain.ErrEmployeeNotFound)

	require.NoError(t, repo.DeleteEmployee(ctx, ada.ID))
	require.NoError(t, repo.DeleteEmployee(ctx, ada.ID))

	all, err := repo.GetAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, grace.ID, all[0].ID)
}
