package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Houeta/payroll/internal/config"
	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
	"github.com/Houeta/payroll/internal/repository"
	"github.com/Houeta/payroll/internal/services/employees"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const employeesPath = "/api/employees"

var (
	errInvalidID       = errors.New("employee id must be a positive integer")
	errInvalidPaging   = errors.New("page and size must be integers")
	errMissingJobYears = errors.New("jobYears is required")
)

// StaffService is the part of employees.Staff used by the REST API.
type StaffService interface {
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	Get(ctx context.Context, identifier int64) (models.Employee, error)
	List(ctx context.Context, page, size int) (employees.Page, error)
	Replace(ctx context.Context, identifier int64, employee models.Employee) (models.Employee, error)
	Update(ctx context.Context, identifier int64, patch employees.Patch) (models.Employee, error)
	Delete(ctx context.Context, identifier int64) error
}

type employeeHandler struct {
	log   *slog.Logger
	staff StaffService
}

// NewRouter builds the employee REST API.
func NewRouter(log *slog.Logger, staff StaffService, metric *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), requestMetrics(metric))

	handler := &employeeHandler{log: log.With(slog.String("division", "api")), staff: staff}

	api := router.Group(employeesPath)
	api.GET("", handler.list)
	api.POST("", handler.create)
	api.GET("/:id", handler.get)
	api.PUT("/:id", handler.replace)
	api.PATCH("/:id", handler.update)
	api.DELETE("/:id", handler.delete)

	return router
}

// StartAPIServer blocks serving handler on cfg.Address until ctx is done.
func StartAPIServer(ctx context.Context, log *slog.Logger, handler http.Handler, cfg config.HTTPConfig) {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serve(ctx, log.With(slog.String("server", "api")), srv, cfg.ShutdownTimeout)
}

// employeeRequest is the JSON body of POST, PUT and PATCH. Pointers tell a
// missing field from a zero value.
type employeeRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Description *string `json:"description"`
	JobTitle    *string `json:"jobTitle"`
	JobYears    *int    `json:"jobYears"`
	Email       *string `json:"email"`
}

func (r employeeRequest) employee() (models.Employee, error) {
	if r.JobYears == nil {
		return models.Employee{}, errMissingJobYears
	}

	if r.Email == nil {
		return models.NewEmployee(
			lo.FromPtr(r.FirstName), lo.FromPtr(r.LastName), lo.FromPtr(r.Description), lo.FromPtr(r.JobTitle),
			*r.JobYears)
	}

	return models.NewEmployeeWithEmail(
		lo.FromPtr(r.FirstName), lo.FromPtr(r.LastName), lo.FromPtr(r.Description), lo.FromPtr(r.JobTitle),
		*r.JobYears, *r.Email)
}

func (r employeeRequest) patch() employees.Patch {
	return employees.Patch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Description: r.Description,
		JobTitle:    r.JobTitle,
		JobYears:    r.JobYears,
		Email:       r.Email,
	}
}

type link struct {
	Href string `json:"href"`
}

type employeeResource struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Description string          `json:"description"`
	JobTitle    string          `json:"jobTitle"`
	JobYears    int             `json:"jobYears"`
	Email       *string         `json:"email,omitempty"`
	Links       map[string]link `json:"_links"`
}

type pageMetadata struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type employeeCollection struct {
	Embedded struct {
		Employees []employeeResource `json:"employees"`
	} `json:"_embedded"`
	Links map[string]link `json:"_links"`
	Page  pageMetadata    `json:"page"`
}

func newEmployeeResource(base string, employee models.Employee) employeeResource {
	identifier, _ := employee.ID()
	self := link{Href: base + employeesPath + "/" + strconv.FormatInt(identifier, 10)}

	resource := employeeResource{
		ID:          identifier,
		FirstName:   employee.FirstName(),
		LastName:    employee.LastName(),
		Description: employee.Description(),
		JobTitle:    employee.JobTitle(),
		JobYears:    employee.JobYears(),
		Links:       map[string]link{"self": self, "employee": self},
	}
	if employee.Flavor() == models.FlavorExtended {
		resource.Email = lo.ToPtr(employee.Email())
	}

	return resource
}

func (h *employeeHandler) list(c *gin.Context) {
	page, errPage := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, errSize := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(employees.DefaultPageSize)))
	if errPage != nil || errSize != nil {
		h.fail(c, errInvalidPaging)
		return
	}

	result, err := h.staff.List(c.Request.Context(), page, size)
	if err != nil {
		h.fail(c, err)
		return
	}

	base := baseURL(c)

	var body employeeCollection
	body.Embedded.Employees = lo.Map(result.Employees, func(employee models.Employee, _ int) employeeResource {
		return newEmployeeResource(base, employee)
	})
	body.Links = map[string]link{
		"self": {Href: base + employeesPath + "?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size)},
	}
	body.Page = pageMetadata{
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages(),
		Number:        result.Number,
	}

	c.JSON(http.StatusOK, body)
}

func (h *employeeHandler) get(c *gin.Context) {
	identifier, ok := h.pathID(c)
	if !ok {
		return
	}

	employee, err := h.staff.Get(c.Request.Context(), identifier)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newEmployeeResource(baseURL(c), employee))
}

func (h *employeeHandler) create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	employee, err := req.employee()
	if err != nil {
		h.fail(c, err)
		return
	}

	saved, err := h.staff.Create(c.Request.Context(), employee)
	if err != nil {
		h.fail(c, err)
		return
	}

	resource := newEmployeeResource(baseURL(c), saved)
	c.Header("Location", resource.Links["self"].Href)
	c.JSON(http.StatusCreated, resource)
}

func (h *employeeHandler) replace(c *gin.Context) {
	identifier, ok := h.pathID(c)
	if !ok {
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	employee, err := req.employee()
	if err != nil {
		h.fail(c, err)
		return
	}

	replaced, err := h.staff.Replace(c.Request.Context(), identifier, employee)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newEmployeeResource(baseURL(c), replaced))
}

func (h *employeeHandler) update(c *gin.Context) {
	identifier, ok := h.pathID(c)
	if !ok {
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.staff.Update(c.Request.Context(), identifier, req.patch())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newEmployeeResource(baseURL(c), updated))
}

func (h *employeeHandler) delete(c *gin.Context) {
	identifier, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.staff.Delete(c.Request.Context(), identifier); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *employeeHandler) pathID(c *gin.Context) (int64, bool) {
	identifier, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || identifier < 1 {
		h.fail(c, errInvalidID)
		return 0, false
	}

	return identifier, true
}

// fail maps domain errors onto HTTP status codes.
func (h *employeeHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrEmployeeNotFound.Error()})
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, employees.ErrInvalidPage),
		errors.Is(err, employees.ErrInvalidPageSize),
		errors.Is(err, errInvalidID),
		errors.Is(err, errInvalidPaging),
		errors.Is(err, errMissingJobYears):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + c.Request.Host
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.DebugContext(c.Request.Context(), "Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func requestMetrics(metric *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if metric == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metric.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
