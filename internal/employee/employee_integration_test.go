//go:build integration

package employee_test

import (
	"context"
	"database/sql"
	"testing"

	"go-employee/internal/employee"
	employeeerrors "go-employee/internal/employee/errors"
	"go-employee/internal/events"
	"go-employee/internal/messaging/kafka"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("employees"),
		tcpostgres.WithUsername("employee"),
		tcpostgres.WithPassword("employee"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../migrations"))

	return db
}

func TestEmployeeLifecycle_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	outboxRepo := kafka.NewOutboxRepository(db)
	svc := employee.NewServiceWithOutbox(db, employee.NewRepository(gormDB), outboxRepo, nil)

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "ADA@example.com",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)

	found, err := svc.Search(ctx, employee.SearchEmployeeRequest{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	updated, err := svc.Update(ctx, created.ID, employee.UpdateEmployeeRequest{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "augusta@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, updated, all[0])

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)

	pending, err := outboxRepo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, events.EmployeeCreated, pending[0].EventType)
	assert.Equal(t, events.EmployeeUpdated, pending[1].EventType)
	assert.Equal(t, events.EmployeeDeleted, pending[2].EventType)

	require.NoError(t, outboxRepo.MarkSent(ctx, pending[0].ID))
	pending, err = outboxRepo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
