package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *repository.SQLiteRepository {
	t.Helper()

	db, err := repository.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewSQLiteRepository(db, 5*time.Second, nil)
}

func seedEmployees(t *testing.T, repo repository.EmployeeRepository, employees ...*domain.Employee) {
	t.Helper()

	for _, e := range employees {
		require.NoError(t, repo.CreateEmployee(context.Background(), e))
	}
}

func TestSQLiteCreateThenGet_RoundTrip(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	ada := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Department: "R&D", Position: "Engineer"}
	require.NoError(t, repo.CreateEmployee(ctx, ada))
	require.NotZero(t, ada.ID)

	got, err := repo.GetEmployeeByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada, got)
}

func TestSQLiteCreate_AssignsIncreasingIDs(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	first := &domain.Employee{FirstName: "A", LastName: "A", Email: "a@x.com"}
	second := &domain.Employee{ID: 1000, FirstName: "B", LastName: "B", Email: "b@x.com"}
	seedEmployees(t, repo, first, second)

	assert.Greater(t, second.ID, first.ID)
	assert.NotEqual(t, int64(1000), second.ID)
}

func TestSQLiteCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	seedEmployees(t, repo, &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"})

	err := repo.CreateEmployee(context.Background(), &domain.Employee{FirstName: "Other", LastName: "Ada", Email: "ada@x.com"})

	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSQLiteGetEmployeeByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	employee, err := repo.GetEmployeeByID(context.Background(), 404)

	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.Nil(t, employee)
}

func TestSQLiteUpdate_ForcesPathID(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	ada := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}
	seedEmployees(t, repo, ada)

	changed := &domain.Employee{ID: 12345, FirstName: "Ada", LastName: "King", Email: "ada.king@x.com", Department: "Math", Position: "Countess"}
	require.NoError(t, repo.UpdateEmployee(ctx, ada.ID, changed))
	assert.Equal(t, ada.ID, changed.ID)

	got, err := repo.GetEmployeeByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, changed, got)

	_, err = repo.GetEmployeeByID(ctx, 12345)
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestSQLiteUpdate_MissingID(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	seedEmployees(t, repo, &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"})

	err := repo.UpdateEmployee(ctx, 5, &domain.Employee{FirstName: "X", LastName: "Y", Email: "z@x.com"})
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	all, err := repo.GetAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Lovelace", all[0].LastName)
}

func TestSQLiteDelete_Idempotent(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	ada := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}
	seedEmployees(t, repo, ada)

	require.NoError(t, repo.DeleteEmployee(ctx, ada.ID))
	require.NoError(t, repo.DeleteEmployee(ctx, ada.ID))
	require.NoError(t, repo.DeleteEmployee(ctx, 999))

	_, err := repo.GetEmployeeByID(ctx, ada.ID)
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestSQLiteGetAllEmployees_IDOrder(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	seedEmployees(t, repo,
		&domain.Employee{FirstName: "C", LastName: "C", Email: "c@x.com"},
		&domain.Employee{FirstName: "A", LastName: "A", Email: "a@x.com"},
		&domain.Employee{FirstName: "B", LastName: "B", Email: "b@x.com"},
	)

	all, err := repo.GetAllEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{all[0].FirstName, all[1].FirstName, all[2].FirstName})
}

func TestSQLiteSearchEmployees(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	employees := []*domain.Employee{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Department: "R&D", Position: "Engineer"},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@bletchley.uk", Department: "Crypto", Position: "Mathematician"},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Department: "Navy", Position: "Rear Admiral"},
		{FirstName: "Edsger", LastName: "Dijkstra", Email: "ewd@utexas.edu", Department: "CS 100%", Position: "Professor"},
	}
	seedEmployees(t, repo, employees...)

	tests := []struct {
		keyword string
		want    []string
	}{
		{keyword: "lovelace", want: []string{"Ada"}},
		{keyword: "A", want: []string{"Ada", "Alan", "Grace", "Edsger"}},
		{keyword: "MATH", want: []string{"Alan"}},
		{keyword: ".mil", want: []string{"Grace"}},
		{keyword: "100%", want: []string{"Edsger"}},
		{keyword: "%", want: []string{"Edsger"}},
		{keyword: "_", want: []string{}},
		{keyword: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := repo.SearchEmployees(context.Background(), tt.keyword)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.FirstName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSQLiteSearchEmployees_MatchesDomainPredicate(t *testing.T) {
	t.Parallel()
	repo := newSQLiteRepo(t)

	employees := []*domain.Employee{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Department: "R&D", Position: "Engineer"},
		{FirstName: "Zoë", LastName: "Ångström", Email: "zoe@x.com", Department: "Physics", Position: ""},
		{FirstName: "Bob", LastName: "Builder", Email: "bob@y.org", Department: "", Position: "Engineer"},
	}
	seedEmployees(t, repo, employees...)

	for _, keyword := range []string{"e", "ENG", "ångs", "x.com", "Ö", "nobody"} {
		got, err := repo.SearchEmployees(context.Background(), keyword)
		require.NoError(t, err)

		var want []int64
		for _, e := range employees {
			if e.MatchesKeyword(keyword) {
				want = append(want, e.ID)
			}
		}

		var ids []int64
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, want, ids, "keyword %q", keyword)
	}
}

func TestOpenSQLite_FilePersists(t *testing.T) {
	dir := filet.TmpDir(t, "")
	defer filet.CleanUp(t)

	ctx := context.Background()
	path := filepath.Join(dir, "employees.db")

	db, err := repository.OpenSQLite(ctx, path)
	require.NoError(t, err)
	repo := repository.NewSQLiteRepository(db, 5*time.Second, nil)

	ada := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}
	require.NoError(t, repo.CreateEmployee(ctx, ada))
	require.NoError(t, db.Close())

	db, err = repository.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := repository.NewSQLiteRepository(db, 5*time.Second, nil).GetEmployeeByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada, got)
}
