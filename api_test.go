package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-hub/backend/internal/config"
	"project-hub/backend/internal/handlers"
	"project-hub/backend/internal/models"
	"project-hub/backend/internal/services"
	"project-hub/backend/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestAPI wires the full stack against sqlite and miniredis: real
// services, real session store, real router.
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.RateLimit.Enabled = false
	cfg.Auth.BCryptCost = 4

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("sqlite open failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(client, time.Hour)

	return NewRouter(cfg, sessions,
		handlers.NewRegisterHandler(db, services.NewRegisterService(cfg.Auth.BCryptCost)),
		handlers.NewAuthHandler(db, services.NewAuthService(), sessions, cfg.Session),
		handlers.NewProjectHandler(db, services.NewProjectService()),
		handlers.NewTaskHandler(db, services.NewTaskService(), nil),
		handlers.NewHealthHandler(db, sessions),
	)
}

type testClient struct {
	t        *testing.T
	router   *gin.Engine
	cookies  []*http.Cookie
	identity models.Identity
}

func (c *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		c.cookies = cs
	}
	return w
}

func (c *testClient) registerAndLogin(username, email string) {
	c.t.Helper()
	w := c.do("POST", "/api/register", map[string]string{
		"username": username, "email": email, "password": "long-enough-pass",
	})
	if w.Code != http.StatusCreated {
		c.t.Fatalf("register %s: expected 201, got %d (%s)", username, w.Code, w.Body.String())
	}
	w = c.do("POST", "/api/login", map[string]string{
		"email": email, "password": "long-enough-pass",
	})
	if w.Code != http.StatusOK {
		c.t.Fatalf("login %s: expected 200, got %d (%s)", username, w.Code, w.Body.String())
	}
	decode(c.t, w, &c.identity)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
}

func TestEndToEndOwnershipScenario(t *testing.T) {
	router := newTestAPI(t)

	u1 := &testClient{t: t, router: router}
	u1.registerAndLogin("u1", "u1@example.com")

	// u1 creates P1; owner is forced to u1 regardless of the body
	w := u1.do("POST", "/api/projects", map[string]string{"name": "P1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var p1 models.Project
	decode(t, w, &p1)
	if p1.UserID != u1.identity.ID {
		t.Fatalf("expected P1 owned by u1 (%s), got %s", u1.identity.ID, p1.UserID)
	}

	// u1 creates T1 under P1
	w = u1.do("POST", "/api/tasks", map[string]interface{}{
		"title": "T1", "project_id": p1.ID.String(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var t1 models.Task
	decode(t, w, &t1)

	// u1 sees T1
	var u1Tasks []models.Task
	decode(t, u1.do("GET", "/api/tasks", nil), &u1Tasks)
	if len(u1Tasks) != 1 || u1Tasks[0].ID != t1.ID {
		t.Fatalf("expected u1 to see exactly T1, got %+v", u1Tasks)
	}

	// u2 sees nothing of u1's, even knowing the ids
	u2 := &testClient{t: t, router: router}
	u2.registerAndLogin("u2", "u2@example.com")

	var u2Tasks []models.Task
	decode(t, u2.do("GET", "/api/tasks", nil), &u2Tasks)
	if len(u2Tasks) != 0 {
		t.Errorf("expected u2 task list to be empty, got %+v", u2Tasks)
	}

	if w := u2.do("GET", "/api/projects/"+p1.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("u2 GET P1: expected 404, got %d", w.Code)
	}
	if w := u2.do("PUT", "/api/projects/"+p1.ID.String(), map[string]string{"name": "hijack"}); w.Code != http.StatusNotFound {
		t.Errorf("u2 PUT P1: expected 404, got %d", w.Code)
	}
	if w := u2.do("DELETE", "/api/projects/"+p1.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("u2 DELETE P1: expected 404, got %d", w.Code)
	}
	if w := u2.do("GET", "/api/tasks/"+t1.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("u2 GET T1: expected 404, got %d", w.Code)
	}

	// u2 cannot attach a task to u1's project
	w = u2.do("POST", "/api/tasks", map[string]interface{}{
		"title": "sneaky", "project_id": p1.ID.String(),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("u2 create task in P1: expected 400, got %d", w.Code)
	}

	// and u1 still sees exactly one task
	decode(t, u1.do("GET", "/api/tasks", nil), &u1Tasks)
	if len(u1Tasks) != 1 {
		t.Errorf("expected u1 to still see one task, got %d", len(u1Tasks))
	}
}

func TestEndToEndAuthLifecycle(t *testing.T) {
	router := newTestAPI(t)

	anonymous := &testClient{t: t, router: router}
	if w := anonymous.do("GET", "/api/projects", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list: expected 401, got %d", w.Code)
	}

	u := &testClient{t: t, router: router}
	u.registerAndLogin("u1", "u1@example.com")

	// duplicate registration fails and creates nothing
	w := u.do("POST", "/api/register", map[string]string{
		"username": "other", "email": "u1@example.com", "password": "long-enough-pass",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: expected 400, got %d", w.Code)
	}

	if w := u.do("GET", "/api/projects", nil); w.Code != http.StatusOK {
		t.Errorf("authenticated list: expected 200, got %d", w.Code)
	}

	// logout twice: both succeed
	if w := u.do("POST", "/api/logout", nil); w.Code != http.StatusOK {
		t.Errorf("first logout: expected 200, got %d", w.Code)
	}
	if w := u.do("POST", "/api/logout", nil); w.Code != http.StatusOK {
		t.Errorf("second logout: expected 200, got %d", w.Code)
	}

	if w := u.do("GET", "/api/projects", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("list after logout: expected 401, got %d", w.Code)
	}
}

func TestEndToEndProjectDeleteOrphansTasks(t *testing.T) {
	router := newTestAPI(t)

	u := &testClient{t: t, router: router}
	u.registerAndLogin("u1", "u1@example.com")

	var project models.Project
	decode(t, u.do("POST", "/api/projects", map[string]string{"name": "P1"}), &project)

	var task models.Task
	decode(t, u.do("POST", "/api/tasks", map[string]interface{}{
		"title": "T1", "project_id": project.ID.String(),
	}), &task)

	if w := u.do("DELETE", "/api/projects/"+project.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("delete project: expected 200, got %d", w.Code)
	}

	// the orphaned task is unreachable through the API
	if w := u.do("GET", "/api/tasks/"+task.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("orphaned task fetch: expected 404, got %d", w.Code)
	}
	var tasks []models.Task
	decode(t, u.do("GET", "/api/tasks", nil), &tasks)
	if len(tasks) != 0 {
		t.Errorf("expected orphaned task to be invisible, got %+v", tasks)
	}
}
