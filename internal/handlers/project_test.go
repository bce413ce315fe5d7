package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestProjectCreateRequiresName(t *testing.T) {
	r, _ := newTestServer(t)

	token := registerUser(t, r, "alice", "a@x.com", "pw1")

	w := doJSON(t, r, "POST", "/projects", token, gin.H{"description": "no name"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", w.Code)
	}
}

func TestProjectListNewestFirst(t *testing.T) {
	r, _ := newTestServer(t)

	token := registerUser(t, r, "alice", "a@x.com", "pw1")

	first := createProject(t, r, token, "First")
	second := createProject(t, r, token, "Second")

	projects := listProjects(t, r, token)

	if len(projects) != 2 {
		t.Fatalf("Expected two projects, got %d", len(projects))
	}

	if uint(projects[0]["id"].(float64)) != second || uint(projects[1]["id"].(float64)) != first {
		t.Errorf("Expected newest first, got %v", projects)
	}
}

func TestProjectDeleteOrphansTodos(t *testing.T) {
	r, _ := newTestServer(t)

	token := registerUser(t, r, "alice", "a@x.com", "pw1")
	projectID := createProject(t, r, token, "Home")
	todoID := createTodo(t, r, token, gin.H{"title": "survivor", "project_id": projectID})

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/projects/%d", projectID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete project: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if projects := listProjects(t, r, token); len(projects) != 0 {
		t.Errorf("Expected no projects, got %v", projects)
	}

	todos := listTodos(t, r, token, "")

	if len(todos) != 1 || uint(todos[0]["id"].(float64)) != todoID {
		t.Fatalf("Expected the todo to survive, got %v", todos)
	}

	if todos[0]["project_id"] != nil {
		t.Errorf("Expected the todo's project reference cleared, got %v", todos[0])
	}
}

func TestProjectDeleteOtherUser(t *testing.T) {
	r, _ := newTestServer(t)

	aliceToken := registerUser(t, r, "alice", "a@x.com", "pw1")
	bobToken := registerUser(t, r, "bob", "b@x.com", "pw2")

	projectID := createProject(t, r, aliceToken, "Home")

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/projects/%d", projectID), bobToken, nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting another user's project, got %d", w.Code)
	}

	if projects := listProjects(t, r, aliceToken); len(projects) != 1 {
		t.Errorf("Expected alice's project to survive, got %v", projects)
	}
}

func TestProjectDeleteMissing(t *testing.T) {
	r, _ := newTestServer(t)

	token := registerUser(t, r, "alice", "a@x.com", "pw1")

	if w := doJSON(t, r, "DELETE", "/projects/999", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing project, got %d", w.Code)
	}
}

func TestExportData(t *testing.T) {
	r, _ := newTestServer(t)

	token := registerUser(t, r, "alice", "a@x.com", "pw1")
	otherToken := registerUser(t, r, "bob", "b@x.com", "pw2")

	projectID := createProject(t, r, token, "Home")
	createTodo(t, r, token, gin.H{"title": "mine", "project_id": projectID})
	createTodo(t, r, otherToken, gin.H{"title": "not mine"})

	w := doJSON(t, r, "GET", "/projects/export-data", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]interface{})
	projects := data["projects"].([]interface{})
	todos := data["todos"].([]interface{})

	if len(projects) != 1 || len(todos) != 1 {
		t.Fatalf("Expected exactly the caller's data, got %d projects and %d todos", len(projects), len(todos))
	}

	if todos[0].(map[string]interface{})["title"] != "mine" {
		t.Errorf("Exported another user's todo: %v", todos[0])
	}
}

func TestClearDataScopes(t *testing.T) {
	t.Run("tasks", func(t *testing.T) {
		r, _ := newTestServer(t)
		token := registerUser(t, r, "alice", "a@x.com", "pw1")
		projectID := createProject(t, r, token, "Home")
		createTodo(t, r, token, gin.H{"title": "gone", "project_id": projectID, "completed": true})

		project := findProject(t, listProjects(t, r, token), projectID)
		if project["completed"] != true {
			t.Fatalf("Expected the project completed before clearing, got %v", project)
		}

		w := doJSON(t, r, "POST", "/projects/clear-data", token, gin.H{"type": "tasks"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		if todos := listTodos(t, r, token, ""); len(todos) != 0 {
			t.Errorf("Expected todos cleared, got %v", todos)
		}

		projects := listProjects(t, r, token)
		if len(projects) != 1 {
			t.Fatalf("Expected the project to survive, got %v", projects)
		}

		// A project left with zero todos is never completed.
		project = findProject(t, projects, projectID)
		if project["completed"] != false {
			t.Errorf("Expected clearing tasks to reset completion, got %v", project)
		}
		if project["task_count"] != float64(0) {
			t.Errorf("Expected task_count 0, got %v", project)
		}
	})

	t.Run("projects", func(t *testing.T) {
		r, _ := newTestServer(t)
		token := registerUser(t, r, "alice", "a@x.com", "pw1")
		projectID := createProject(t, r, token, "Home")
		createTodo(t, r, token, gin.H{"title": "kept", "project_id": projectID})

		w := doJSON(t, r, "POST", "/projects/clear-data", token, gin.H{"type": "projects"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		if projects := listProjects(t, r, token); len(projects) != 0 {
			t.Errorf("Expected projects cleared, got %v", projects)
		}

		todos := listTodos(t, r, token, "")
		if len(todos) != 1 {
			t.Fatalf("Expected the todo to survive, got %v", todos)
		}
		if todos[0]["project_id"] != nil {
			t.Errorf("Expected the surviving todo orphaned, got %v", todos[0])
		}
	})

	t.Run("all", func(t *testing.T) {
		r, _ := newTestServer(t)
		token := registerUser(t, r, "alice", "a@x.com", "pw1")
		projectID := createProject(t, r, token, "Home")
		createTodo(t, r, token, gin.H{"title": "gone", "project_id": projectID})

		w := doJSON(t, r, "POST", "/projects/clear-data", token, gin.H{"type": "all"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		if todos := listTodos(t, r, token, ""); len(todos) != 0 {
			t.Errorf("Expected todos cleared, got %v", todos)
		}
		if projects := listProjects(t, r, token); len(projects) != 0 {
			t.Errorf("Expected projects cleared, got %v", projects)
		}
	})

	t.Run("scoped to caller", func(t *testing.T) {
		r, _ := newTestServer(t)
		aliceToken := registerUser(t, r, "alice", "a@x.com", "pw1")
		bobToken := registerUser(t, r, "bob", "b@x.com", "pw2")
		createTodo(t, r, bobToken, gin.H{"title": "bob's"})

		w := doJSON(t, r, "POST", "/projects/clear-data", aliceToken, gin.H{"type": "all"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		if todos := listTodos(t, r, bobToken, ""); len(todos) != 1 {
			t.Errorf("Expected bob's data untouched, got %v", todos)
		}
	})

	t.Run("invalid scope", func(t *testing.T) {
		r, _ := newTestServer(t)
		token := registerUser(t, r, "alice", "a@x.com", "pw1")

		w := doJSON(t, r, "POST", "/projects/clear-data", token, gin.H{"type": "everything"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for an unknown scope, got %d", w.Code)
		}
	})
}
