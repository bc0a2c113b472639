package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(out *bytes.Buffer) *server.Server {
	logger := zerolog.New(out)
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "local"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          1,
				RateBurst:          1,
			},
		},
		Logger: &logger,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	notFound := errors.Wrapf(pgx.ErrNoRows, "table:companies: no row for %v", "nope")
	code := "NO_UPDATE_FIELDS"

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"missing row", notFound, http.StatusNotFound, "NOT_FOUND", "Company not found"},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Route not found"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"api error", errs.NewBadRequestError("No fields to update", true, &code, nil, nil), http.StatusBadRequest, code, "No fields to update"},
		{"hidden 5xx message", &errs.HTTPError{Code: "BROKEN", Message: "pool exhausted", Status: http.StatusServiceUnavailable}, http.StatusServiceUnavailable, "BROKEN", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			global := NewGlobalMiddlewares(testServer(&logs))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/companies/nope", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestGlobalErrorHandlerKeepsFieldErrors(t *testing.T) {
	var logs bytes.Buffer
	global := NewGlobalMiddlewares(testServer(&logs))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), rec)

	fields := []errs.FieldError{{Field: "companyHandle", Error: "cannot be changed"}}
	global.GlobalErrorHandler(errs.NewBadRequestError("Validation failed", true, nil, fields, nil), c)

	body := decodeError(t, rec)
	assert.Equal(t, fields, body.Errors)
	assert.True(t, body.Override)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Len(t, rec.Body.String(), 36)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
}

func TestContextEnhancerStoresLoggerOnRequestContext(t *testing.T) {
	var logs bytes.Buffer
	enhancer := NewContextEnhancer(testServer(&logs))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(RequestIDKey, "req-1")

	err := enhancer.EnhanceContext()(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return nil
	})(c)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "from service", line["message"])
	assert.Equal(t, "GET", line["method"])
}

func TestRequireRole(t *testing.T) {
	var logs bytes.Buffer
	auth := NewAuthMiddleware(testServer(&logs))
	e := echo.New()

	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	isAdmin := func(role string) bool { return role == "org:admin" }
	gate := auth.RequireRole(isAdmin)(ok)

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	setUser(c, "user_1", "org:admin")
	require.NoError(t, gate(c))
	assert.Equal(t, "user_1", GetUserID(c))

	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	setUser(c, "user_2", "org:member")
	err := gate(c)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)

	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	require.Error(t, gate(c))
}

func TestRateLimit(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(&logs)

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/api/v1/jobs", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)

	rec := call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)
	assert.Contains(t, logs.String(), "rate limit exceeded")
	assert.Contains(t, logs.String(), `"client":"10.0.0.1"`)
}

func TestGlobalErrorHandlerLogsWithoutRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	global := NewGlobalMiddlewares(testServer(&logs))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	global.GlobalErrorHandler(errs.NewTooManyRequestsError("slow down"), c)

	assert.Contains(t, logs.String(), `"error_code":"TOO_MANY_REQUESTS"`)
}

func TestGetLoggerFallback(t *testing.T) {
	var logs bytes.Buffer
	fallback := zerolog.New(&logs)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Same(t, &fallback, loggerOr(c, &fallback))
	GetLogger(c).Info().Msg("dropped")
	assert.Empty(t, logs.String())

	requestLogger := zerolog.New(&logs)
	setLogger(c, requestLogger)
	assert.NotSame(t, &fallback, loggerOr(c, &fallback))
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, errorStatus(errors.Wrap(pgx.ErrNoRows, "table:jobs: no row")))
	assert.Equal(t, http.StatusConflict, errorStatus(echo.NewHTTPError(http.StatusConflict)))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(errors.New("boom")))
}
