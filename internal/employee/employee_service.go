package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	employeeerrors "go-employee/internal/employee/errors"
	"go-employee/internal/events"
	"go-employee/internal/messaging/kafka"
	"go-employee/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeListCacheKey = "employees:all"
	// EmployeeListVersionKey is bumped by every committed write. Cached lists
	// live under a key carrying the version read before their query, so a
	// snapshot taken before a write can never be served after it.
	EmployeeListVersionKey = "employees:all:ver"
	listCacheTTL           = time.Hour
)

// ListCacheKey is where the list read at version ver is cached.
func ListCacheKey(ver string) string {
	return EmployeeListCacheKey + ":" + ver
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Search(ctx context.Context, req SearchEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

// NewServiceWithOutbox records a lifecycle event in outbox_events inside the
// same transaction as every write. A nil outboxRepo or rdb disables that part.
func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The check and the insert are not atomic; there is no unique index on
	// email, so two concurrent creates with the same address can both pass.
	existing, err := qtx.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		s.logger.Warn("create employee email already exists",
			zap.String("request_id", rid),
			zap.String("email", req.Email),
			zap.Int64("existing_id", existing.ID),
		)
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create employee email lookup failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl := &Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.EmployeeCreated, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")

	cacheKey, cached := s.listCacheKey(ctx)
	if cached {
		if val, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(val), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent misses into one query, detached from the
	// cancellation of whichever caller starts it.
	sctx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		empls, err := s.repo.FindAll(sctx)
		if err != nil {
			s.logger.Error("get all employees failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)

		if cached {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(sctx, cacheKey, data, listCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee list failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

// listCacheKey resolves the current list version. It reports false when the
// cache cannot be used, in which case the returned key only names the
// singleflight group.
func (s *service) listCacheKey(ctx context.Context) (string, bool) {
	if s.rdb == nil {
		return EmployeeListCacheKey, false
	}

	ver, err := s.rdb.Get(ctx, EmployeeListVersionKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		ver = "0"
	case err != nil:
		s.logger.Warn("read employee list version failed", zap.Error(err))
		return EmployeeListCacheKey, false
	}
	return ListCacheKey(ver), true
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.Int64("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("employee not found", zap.Int64("employee_id", id))
		} else {
			s.logger.Error("get employee by id failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Search(ctx context.Context, req SearchEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("search employee requested",
		zap.String("email", req.Email),
		zap.String("first_name", req.FirstName),
		zap.String("last_name", req.LastName),
	)

	var (
		empl *Employee
		err  error
	)
	switch {
	case req.Email != "":
		empl, err = s.repo.FindByEmail(ctx, req.Email)
	case req.FirstName != "" && req.LastName != "":
		empl, err = s.repo.FindByName(ctx, req.FirstName, req.LastName)
	default:
		return EmployeeResponse{}, employeeerrors.ErrSearchCriteriaRequired
	}
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.Int64("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Int64("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Email = req.Email

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.EmployeeUpdated, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("update employee success", zap.Int64("employee_id", id))
	return mapToResponse(*empl), nil
}

// Delete succeeds whether or not the employee exists.
func (s *service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("delete employee requested", zap.Int64("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affected, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if affected > 0 {
		if err := s.enqueueEvent(ctx, tx, events.EmployeeDeleted, &Employee{ID: id}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	if affected > 0 {
		s.invalidateListCache(ctx)
	}

	s.logger.Info("delete employee success",
		zap.Int64("employee_id", id),
		zap.Bool("existed", affected > 0),
	)
	return nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, eventType string, empl *Employee) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	employeeID := strconv.FormatInt(empl.ID, 10)
	payload, err := json.Marshal(events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: employeeID,
		Email:      empl.Email,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("marshal lifecycle event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   employeeID,
		EventType:     eventType,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("request_id", rid),
			zap.String("event_type", eventType),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(context.WithoutCancel(ctx), EmployeeListVersionKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee list cache",
			zap.String("key", EmployeeListVersionKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        empl.ID,
		FirstName: empl.FirstName,
		LastName:  empl.LastName,
		Email:     empl.Email,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
