//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"booking-api/internal/config"
	"booking-api/internal/database"
	"booking-api/internal/event"
	"booking-api/internal/handler"
	"booking-api/internal/metrics"
	"booking-api/internal/middleware"
	"booking-api/internal/repository"
	"booking-api/internal/router"
	"booking-api/internal/service"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("booking"),
		postgres.WithUsername("booking"),
		postgres.WithPassword("booking"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, dsn, database.PoolOptions{MaxConns: 8, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	tokens, err := service.NewTokenService("integration-secret")
	require.NoError(t, err)
	hasher := service.NewHasher(bcrypt.MinCost, 4)
	bus := event.NewBus()

	auditService := service.NewAuditService(repository.NewAuditRepository(db.Pool), bus)
	auditCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go auditService.Run(auditCtx)

	m := metrics.New()
	userService := service.NewUserService(repository.NewUserRepository(db.Pool), hasher, tokens, bus)
	appointmentService := service.NewAppointmentService(repository.NewAppointmentRepository(db.Pool), bus, m)
	catalogService := service.NewCatalogService(repository.NewServiceRepository(db.Pool), nil, time.Minute, bus)

	created, err := userService.EnsureAdmin(ctx, service.SeedAdmin{Email: adminEmail, Username: "admin", Password: adminPassword})
	require.NoError(t, err)
	require.True(t, created)

	cfg := &config.Config{
		RequestTimeout:   10 * time.Second,
		CORSOrigins:      []string{"*"},
		AuthRateLimitRPM: 1000,
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(tokens), m, router.Handlers{
		Auth:        handler.NewAuthHandler(userService),
		User:        handler.NewUserHandler(userService, appointmentService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Service:     handler.NewServiceHandler(catalogService),
		Audit:       handler.NewAuditHandler(auditService),
		Docs:        handler.NewDocsHandler("../../docs/openapi.yaml"),
		Health:      handler.NewHealthHandler(db),
	}))
	t.Cleanup(server.Close)

	return server
}

func login(t *testing.T, server *httptest.Server, email string, password string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/login", "", map[string]string{"email": email, "password": password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func register(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/users/register", "", map[string]string{
		"fullname":     username,
		"email":        username + "@example.com",
		"phone_number": "555-0100",
		"username":     username,
		"password":     "password-" + username,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Token
}

func doJSON(t *testing.T, method string, url string, token string, body any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
