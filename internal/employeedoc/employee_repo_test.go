package employeedoc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-employee/internal/employeedoc"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id when empty", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb, func() string { return "gen-1" })

		empl := &employeedoc.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		expected := employeedoc.Employee{ID: "gen-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		mock.ExpectHSet(employeedoc.EmployeesKey, "gen-1", mustJSON(t, expected)).SetVal(1)

		require.NoError(t, repo.Save(ctx, empl))
		assert.Equal(t, "gen-1", empl.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps existing id", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb, func() string {
			t.Fatal("generator must not be called")
			return ""
		})

		empl := &employeedoc.Employee{ID: "abc", FirstName: "Ada"}
		mock.ExpectHSet(employeedoc.EmployeesKey, "abc", mustJSON(t, *empl)).SetVal(0)

		require.NoError(t, repo.Save(ctx, empl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb, func() string { return "gen-2" })

		empl := &employeedoc.Employee{FirstName: "Ada"}
		mock.ExpectHSet(employeedoc.EmployeesKey, "gen-2", mustJSON(t, employeedoc.Employee{ID: "gen-2", FirstName: "Ada"})).
			SetErr(errors.New("connection refused"))

		assert.EqualError(t, repo.Save(ctx, empl), "connection refused")
	})
}

func TestRepository_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by id", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb)

		a := employeedoc.Employee{ID: "a", FirstName: "Ada"}
		b := employeedoc.Employee{ID: "b", FirstName: "Alan"}
		mock.ExpectHGetAll(employeedoc.EmployeesKey).SetVal(map[string]string{
			"b": string(mustJSON(t, b)),
			"a": string(mustJSON(t, a)),
		})

		got, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []employeedoc.Employee{a, b}, got)
	})

	t.Run("empty hash", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb)

		mock.ExpectHGetAll(employeedoc.EmployeesKey).SetVal(map[string]string{})

		got, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("corrupt document", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb)

		mock.ExpectHGetAll(employeedoc.EmployeesKey).SetVal(map[string]string{"x": "{"})

		_, err := repo.FindAll(ctx)
		assert.ErrorContains(t, err, "decode employee x")
	})
}

func TestRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb)

		want := employeedoc.Employee{ID: "abc", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		mock.ExpectHGet(employeedoc.EmployeesKey, "abc").SetVal(string(mustJSON(t, want)))

		got, err := repo.FindByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	})

	t.Run("missing", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := employeedoc.NewRepository(rdb)

		mock.ExpectHGet(employeedoc.EmployeesKey, "nope").RedisNil()

		got, err := repo.FindByID(ctx, "nope")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, redis.Nil)
	})
}

func TestRepository_DeleteByID(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	repo := employeedoc.NewRepository(rdb)

	mock.ExpectHDel(employeedoc.EmployeesKey, "abc").SetVal(1)
	mock.ExpectHDel(employeedoc.EmployeesKey, "abc").SetVal(0)

	assert.NoError(t, repo.DeleteByID(ctx, "abc"))
	assert.NoError(t, repo.DeleteByID(ctx, "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
