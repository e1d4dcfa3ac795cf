//go:build integration

package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/database"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	skipIfNoDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "course_user",
				"POSTGRES_PASSWORD": "course_password",
				"POSTGRES_DB":       "course_db",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "course_user",
		Password:        "course_password",
		Name:            "course_db",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		MigrationsPath:  "file://../../migrations",
	}
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) call(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, c.base+path, &payload)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestCoursePortal_Postgres(t *testing.T) {
	dbCfg := startPostgres(t)

	migrator, err := database.NewMigrator(dbCfg)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if version, dirty, err := migrator.Version(); err != nil || dirty || version != 5 {
		t.Fatalf("Version() = %d, %v, %v; want 5, false, nil", version, dirty, err)
	}
	migrator.Close()

	db, err := database.NewPostgres(dbCfg)
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Address: ":0", RequestTimeout: 10 * time.Second},
		Database: dbCfg,
		Auth: config.AuthConfig{
			Enabled:           true,
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			TokenTTL:          time.Hour,
			AdminUsername:     "admin",
			AdminPasswordHash: string(adminHash),
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	application, err := New(cfg, zerolog.Nop(), db)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { application.Shutdown(context.Background()) })

	server := httptest.NewServer(application.server.Handler)
	t.Cleanup(server.Close)

	client := &apiClient{t: t, base: server.URL}

	status, env := client.call(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin", "password": "admin-pass",
	})
	if status != http.StatusOK {
		t.Fatalf("admin login: status = %d, env = %v", status, env)
	}
	client.token = env["data"].(map[string]interface{})["token"].(string)

	student := map[string]string{
		"student_id": "s1", "name": "Ann", "email": "ann@x.io", "password": "secret123",
	}
	if status, env = client.call(http.MethodPost, "/api/v1/students", student); status != http.StatusCreated {
		t.Fatalf("create student: status = %d, env = %v", status, env)
	}
	if status, env = client.call(http.MethodPost, "/api/v1/students", student); status != http.StatusConflict {
		t.Fatalf("duplicate student: status = %d, env = %v", status, env)
	}
	shouted := map[string]string{
		"student_id": "s2", "name": "Ann", "email": "ANN@X.io", "password": "secret123",
	}
	if status, env = client.call(http.MethodPost, "/api/v1/students", shouted); status != http.StatusConflict {
		t.Fatalf("email differing only in case: status = %d, env = %v", status, env)
	}

	status, env = client.call(http.MethodGet, "/api/v1/students?student_id=s1", nil)
	if status != http.StatusOK {
		t.Fatalf("get student: status = %d, env = %v", status, env)
	}
	data := env["data"].(map[string]interface{})
	if _, ok := data["password_hash"]; ok {
		t.Error("student response exposes password_hash")
	}

	status, env = client.call(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "ann@x.io", "password": "secret123",
	})
	if status != http.StatusOK || env["data"].(map[string]interface{})["role"] != "student" {
		t.Fatalf("student login: status = %d, env = %v", status, env)
	}

	topic := map[string]string{"topic_id": "t1", "subject": "Intro", "message": "Hi", "author": "Ann"}
	if status, env = client.call(http.MethodPost, "/api/v1/topics", topic); status != http.StatusCreated {
		t.Fatalf("create topic: status = %d, env = %v", status, env)
	}
	reply := map[string]string{"reply_id": "r1", "topic_id": "t1", "text": "Welcome", "author": "Bob"}
	if status, env = client.call(http.MethodPost, "/api/v1/topics?resource=replies", reply); status != http.StatusCreated {
		t.Fatalf("create reply: status = %d, env = %v", status, env)
	}

	status, env = client.call(http.MethodDelete, "/api/v1/topics", map[string]string{"topic_id": "t1"})
	if status != http.StatusOK {
		t.Fatalf("delete topic: status = %d, env = %v", status, env)
	}

	status, env = client.call(http.MethodGet, "/api/v1/topics?resource=replies&topic_id=t1", nil)
	if status != http.StatusOK {
		t.Fatalf("list replies: status = %d, env = %v", status, env)
	}
	if replies := env["data"].([]interface{}); len(replies) != 0 {
		t.Errorf("replies after cascade delete = %v, want none", replies)
	}
}
