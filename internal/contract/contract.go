// Package contract is the registry binding every API operation to its HTTP
// method, path template, request body type and response types by status.
// The server registers its routes from it and the client builds requests
// and decodes responses from it.
package contract

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	apierrors "github.com/yukikurage/clinical-data-api/internal/errors"
	"github.com/yukikurage/clinical-data-api/internal/models"
)

// Route describes one API operation.
type Route struct {
	Name   string
	Method string
	// Path uses :param placeholders, which gin understands directly.
	Path string
	// Input is a zero value of the request body type, nil if the route takes no body.
	Input any
	// Responses maps status code to a zero value of the body sent with it.
	Responses map[int]any
}

var errorBody = apierrors.APIError{}

func responses(success int, body any, errorStatuses ...int) map[int]any {
	m := map[int]any{
		success:                        body,
		http.StatusInternalServerError: errorBody,
	}
	for _, status := range errorStatuses {
		m[status] = errorBody
	}
	return m
}

var (
	AuthLogin = Route{
		Name:      "auth.login",
		Method:    http.MethodPost,
		Path:      "/api/auth/login",
		Input:     LoginRequest{},
		Responses: responses(http.StatusOK, dto.UserDTO{}, http.StatusBadRequest, http.StatusUnauthorized),
	}
	AuthLogout = Route{
		Name:      "auth.logout",
		Method:    http.MethodPost,
		Path:      "/api/auth/logout",
		Responses: responses(http.StatusOK, dto.MessageResponse{}),
	}
	AuthMe = Route{
		Name:      "auth.me",
		Method:    http.MethodGet,
		Path:      "/api/auth/me",
		Responses: responses(http.StatusOK, dto.UserDTO{}, http.StatusUnauthorized),
	}

	UsersList = Route{
		Name:      "users.list",
		Method:    http.MethodGet,
		Path:      "/api/users",
		Responses: responses(http.StatusOK, []dto.UserDTO{}),
	}
	UsersCreate = Route{
		Name:      "users.create",
		Method:    http.MethodPost,
		Path:      "/api/users",
		Input:     CreateUserRequest{},
		Responses: responses(http.StatusCreated, dto.UserDTO{}, http.StatusBadRequest, http.StatusConflict),
	}
	UsersUpdate = Route{
		Name:      "users.update",
		Method:    http.MethodPut,
		Path:      "/api/users/:id",
		Input:     UpdateUserRequest{},
		Responses: responses(http.StatusOK, dto.UserDTO{}, http.StatusBadRequest, http.StatusNotFound, http.StatusConflict),
	}
	UsersDelete = Route{
		Name:      "users.delete",
		Method:    http.MethodDelete,
		Path:      "/api/users/:id",
		Responses: responses(http.StatusOK, dto.MessageResponse{}, http.StatusBadRequest, http.StatusNotFound),
	}

	DatasetsList = Route{
		Name:      "datasets.list",
		Method:    http.MethodGet,
		Path:      "/api/datasets",
		Responses: responses(http.StatusOK, []models.Dataset{}),
	}
	DatasetsGet = Route{
		Name:      "datasets.get",
		Method:    http.MethodGet,
		Path:      "/api/datasets/:id",
		Responses: responses(http.StatusOK, models.Dataset{}, http.StatusBadRequest, http.StatusNotFound),
	}
	DatasetsCreate = Route{
		Name:      "datasets.create",
		Method:    http.MethodPost,
		Path:      "/api/datasets",
		Input:     CreateDatasetRequest{},
		Responses: responses(http.StatusCreated, models.Dataset{}, http.StatusBadRequest),
	}

	FilesList = Route{
		Name:      "files.list",
		Method:    http.MethodGet,
		Path:      "/api/datasets/:id/files",
		Responses: responses(http.StatusOK, []models.FileRecord{}, http.StatusBadRequest),
	}
	FilesUpload = Route{
		Name:      "files.upload",
		Method:    http.MethodPost,
		Path:      "/api/datasets/:id/files",
		Input:     UploadFileRequest{},
		Responses: responses(http.StatusCreated, models.FileRecord{}, http.StatusBadRequest),
	}

	ModelsList = Route{
		Name:      "models.list",
		Method:    http.MethodGet,
		Path:      "/api/models",
		Responses: responses(http.StatusOK, []models.Model{}),
	}
	ModelsRun = Route{
		Name:      "models.run",
		Method:    http.MethodPost,
		Path:      "/api/models/:id/run",
		Input:     RunModelRequest{},
		Responses: responses(http.StatusOK, dto.ModelRunResponse{}, http.StatusBadRequest),
	}

	AuditList = Route{
		Name:      "audit.list",
		Method:    http.MethodGet,
		Path:      "/api/audit-logs",
		Responses: responses(http.StatusOK, []models.AuditLog{}),
	}
)

var registry = []Route{
	AuthLogin, AuthLogout, AuthMe,
	UsersList, UsersCreate, UsersUpdate, UsersDelete,
	DatasetsList, DatasetsGet, DatasetsCreate,
	FilesList, FilesUpload,
	ModelsList, ModelsRun,
	AuditList,
}

func init() {
	// Report JSON field names in validation errors so both sides speak the
	// wire names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		mustRegister(v, "bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= constants.MaxPasswordBytes
		})
		mustRegister(v, "notpadded", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == strings.TrimSpace(s)
		})
	}
}

// Custom tags:
//
//	bcryptlen  the string fits bcrypt's input limit, counted in bytes
//	notpadded  no leading or trailing whitespace
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("contract: register %s: %v", tag, err))
	}
}

// Routes returns every registered route in registration order.
func Routes() []Route {
	out := make([]Route, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a route by its operation name, e.g. "datasets.get".
func Lookup(name string) (Route, bool) {
	for _, r := range registry {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Family is the resource family of the route, the part of the name before the dot.
func (r Route) Family() string {
	family, _, _ := strings.Cut(r.Name, ".")
	return family
}

// Mutates reports whether the route changes server state.
func (r Route) Mutates() bool {
	return r.Method != http.MethodGet
}

// Accepts reports whether status is registered for the route.
func (r Route) Accepts(status int) bool {
	_, ok := r.Responses[status]
	return ok
}

// SuccessStatus returns the lowest 2xx status registered for the route.
func (r Route) SuccessStatus() int {
	best := 0
	for status := range r.Responses {
		if status >= 200 && status < 300 && (best == 0 || status < best) {
			best = status
		}
	}
	return best
}

// ResponseType returns the body type registered for status.
func (r Route) ResponseType(status int) (reflect.Type, bool) {
	proto, ok := r.Responses[status]
	if !ok {
		return nil, false
	}
	return reflect.TypeOf(proto), true
}

// Conforms checks that body has the type registered for status. Pointers are
// dereferenced before comparing.
func (r Route) Conforms(status int, body any) error {
	want, ok := r.ResponseType(status)
	if !ok {
		return fmt.Errorf("%s: status %d is not registered", r.Name, status)
	}
	if got := indirectType(body); got != want {
		return fmt.Errorf("%s: status %d expects %s, got %v", r.Name, status, want, got)
	}
	return nil
}

// ValidateInput checks that body is the route's request type and satisfies its
// binding tags.
func (r Route) ValidateInput(body any) error {
	if r.Input == nil {
		if body != nil {
			return fmt.Errorf("%s: takes no request body", r.Name)
		}
		return nil
	}
	if body == nil {
		return fmt.Errorf("%s: request body is required", r.Name)
	}
	if got, want := indirectType(body), reflect.TypeOf(r.Input); got != want {
		return fmt.Errorf("%s: request body must be %s, got %v", r.Name, want, got)
	}
	return binding.Validator.ValidateStruct(body)
}

func indirectType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
