package employeedoc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EmployeesKey is the hash holding every employee document.
const EmployeesKey = "employees"

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	Save(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	// FindByID returns redis.Nil when no document has the id.
	FindByID(ctx context.Context, id string) (*Employee, error)
	DeleteByID(ctx context.Context, id string) error
}

type repository struct {
	rdb   *redis.Client
	newID func() string
}

// NewRepository stores documents in rdb. idGen overrides the UUID generator
// used for documents saved without an id.
func NewRepository(rdb *redis.Client, idGen ...func() string) Repository {
	gen := uuid.NewString
	if len(idGen) > 0 && idGen[0] != nil {
		gen = idGen[0]
	}
	return &repository{rdb: rdb, newID: gen}
}

// Save inserts or replaces the document. An empty ID is assigned first.
func (r *repository) Save(ctx context.Context, empl *Employee) error {
	if empl.ID == "" {
		empl.ID = r.newID()
	}

	data, err := json.Marshal(empl)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, EmployeesKey, empl.ID, data).Err()
}

// FindAll returns documents ordered by id.
func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	raw, err := r.rdb.HGetAll(ctx, EmployeesKey).Result()
	if err != nil {
		return nil, err
	}

	empls := make([]Employee, 0, len(raw))
	for field, val := range raw {
		var e Employee
		if err := json.Unmarshal([]byte(val), &e); err != nil {
			return nil, fmt.Errorf("decode employee %s: %w", field, err)
		}
		empls = append(empls, e)
	}

	sort.Slice(empls, func(i, j int) bool { return empls[i].ID < empls[j].ID })
	return empls, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	val, err := r.rdb.HGet(ctx, EmployeesKey, id).Result()
	if err != nil {
		return nil, err
	}

	var e Employee
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return nil, fmt.Errorf("decode employee %s: %w", id, err)
	}
	return &e, nil
}

// DeleteByID is a no-op for unknown ids.
func (r *repository) DeleteByID(ctx context.Context, id string) error {
	return r.rdb.HDel(ctx, EmployeesKey, id).Err()
}
