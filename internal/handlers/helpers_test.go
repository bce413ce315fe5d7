package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tasklight-dev/tasklight/internal/auth"
	"github.com/tasklight-dev/tasklight/internal/router"
	"github.com/tasklight-dev/tasklight/internal/store"
	"github.com/tasklight-dev/tasklight/internal/store/storetest"
)

func newTestServer(t *testing.T) (*gin.Engine, *storetest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}

	st := storetest.New()
	r := router.NewRouter(st.Users(), st.Todos(), st.Projects(), nil)

	return r, st
}

// newTestServerWithProjects is newTestServer with a custom project store,
// used to observe recomputation calls.
func newTestServerWithProjects(t *testing.T, st *storetest.Store, projects store.ProjectStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}

	return router.NewRouter(st.Users(), st.Todos(), projects, nil)
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal response %q: %v", w.Body.String(), err)
	}

	return body
}

func registerUser(t *testing.T, r http.Handler, username, email, password string) string {
	t.Helper()

	w := doJSON(t, r, "POST", "/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Register %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}

	token, ok := decodeBody(t, w)["token"].(string)
	if !ok || token == "" {
		t.Fatalf("Register %s: response has no token", email)
	}

	return token
}

func createProject(t *testing.T, r http.Handler, token, name string) uint {
	t.Helper()

	w := doJSON(t, r, "POST", "/projects", token, gin.H{"name": name})

	if w.Code != http.StatusCreated {
		t.Fatalf("Create project %s: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]interface{})

	return uint(data["id"].(float64))
}

func createTodo(t *testing.T, r http.Handler, token string, body gin.H) uint {
	t.Helper()

	w := doJSON(t, r, "POST", "/todos", token, body)

	if w.Code != http.StatusCreated {
		t.Fatalf("Create todo: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]interface{})

	return uint(data["id"].(float64))
}

func listProjects(t *testing.T, r http.Handler, token string) []map[string]interface{} {
	t.Helper()

	w := doJSON(t, r, "GET", "/projects", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("List projects: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	raw := decodeBody(t, w)["data"].([]interface{})
	projects := make([]map[string]interface{}, 0, len(raw))

	for _, item := range raw {
		projects = append(projects, item.(map[string]interface{}))
	}

	return projects
}

func listTodos(t *testing.T, r http.Handler, token, query string) []map[string]interface{} {
	t.Helper()

	w := doJSON(t, r, "GET", "/todos"+query, token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("List todos: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	raw := decodeBody(t, w)["data"].([]interface{})
	todos := make([]map[string]interface{}, 0, len(raw))

	for _, item := range raw {
		todos = append(todos, item.(map[string]interface{}))
	}

	return todos
}

func findProject(t *testing.T, projects []map[string]interface{}, id uint) map[string]interface{} {
	t.Helper()

	for _, project := range projects {
		if uint(project["id"].(float64)) == id {
			return project
		}
	}

	t.Fatalf("Project %d not in list", id)
	return nil
}
