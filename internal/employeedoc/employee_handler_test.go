package employeedoc_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-employee/internal/employeedoc"
	employeedocerrors "go-employee/internal/employeedoc/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeDocService struct {
	CreateFn  func(ctx context.Context, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error)
	GetAllFn  func(ctx context.Context) ([]employeedoc.EmployeeResponse, error)
	GetByIDFn func(ctx context.Context, id string) (employeedoc.EmployeeResponse, error)
	UpdateFn  func(ctx context.Context, id string, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakeDocService) Create(ctx context.Context, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeDocService) GetAll(ctx context.Context) ([]employeedoc.EmployeeResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeDocService) GetByID(ctx context.Context, id string) (employeedoc.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeDocService) Update(ctx context.Context, id string, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeDocService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func serve(svc employeedoc.Service, method, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	employeedoc.RegisterRoutes(r.Group("/api"), employeedoc.NewHandler(svc))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDocHandler_Create(t *testing.T) {
	svc := &fakeDocService{
		CreateFn: func(_ context.Context, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error) {
			return employeedoc.EmployeeResponse{ID: "doc-1", FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}, nil
		},
	}

	w := serve(svc, http.MethodPost, "/api/employees", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"doc-1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`, w.Body.String())
}

func TestDocHandler_Create_BadBody(t *testing.T) {
	w := serve(&fakeDocService{}, http.MethodPost, "/api/employees", `not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestDocHandler_GetAll(t *testing.T) {
	svc := &fakeDocService{
		GetAllFn: func(context.Context) ([]employeedoc.EmployeeResponse, error) {
			return []employeedoc.EmployeeResponse{}, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/employees", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDocHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeDocService{
			GetByIDFn: func(_ context.Context, id string) (employeedoc.EmployeeResponse, error) {
				assert.Equal(t, "abc", id)
				return employeedoc.EmployeeResponse{ID: id}, nil
			},
		}

		w := serve(svc, http.MethodGet, "/api/employees/abc", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"abc"`)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &fakeDocService{
			GetByIDFn: func(context.Context, string) (employeedoc.EmployeeResponse, error) {
				return employeedoc.EmployeeResponse{}, employeedocerrors.ErrEmployeeNotFound
			},
		}

		w := serve(svc, http.MethodGet, "/api/employees/zzz", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})
}

func TestDocHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDocService{
			UpdateFn: func(_ context.Context, id string, req employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error) {
				return employeedoc.EmployeeResponse{ID: id, FirstName: req.FirstName}, nil
			},
		}

		w := serve(svc, http.MethodPut, "/api/employees/abc", `{"firstName":"Augusta"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Augusta")
	})

	t.Run("missing", func(t *testing.T) {
		svc := &fakeDocService{
			UpdateFn: func(context.Context, string, employeedoc.EmployeeRequest) (employeedoc.EmployeeResponse, error) {
				return employeedoc.EmployeeResponse{}, employeedocerrors.ErrEmployeeNotFound
			},
		}

		w := serve(svc, http.MethodPut, "/api/employees/zzz", `{"firstName":"Augusta"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDocHandler_Delete(t *testing.T) {
	svc := &fakeDocService{
		DeleteFn: func(_ context.Context, id string) error {
			assert.Equal(t, "abc", id)
			return nil
		},
	}

	w := serve(svc, http.MethodDelete, "/api/employees/abc", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
