// Package storetest provides in-memory store implementations for tests.
// They mirror the semantics of the gorm-backed stores: ownership scoping,
// newest-first ordering, read-time counts, and the completion rule.
package storetest

import (
	"sort"
	"sync"
	"time"

	"github.com/tasklight-dev/tasklight/internal/models"
	"github.com/tasklight-dev/tasklight/internal/store"
)

type Store struct {
	mu sync.Mutex

	users    map[uint]*models.User
	projects map[uint]*models.Project
	todos    map[uint]*models.Todo

	nextUserID    uint
	nextProjectID uint
	nextTodoID    uint
}

func New() *Store {
	return &Store{
		users:    make(map[uint]*models.User),
		projects: make(map[uint]*models.Project),
		todos:    make(map[uint]*models.Todo),
	}
}

func (s *Store) Users() store.UserStore       { return &userStore{s} }
func (s *Store) Todos() store.TodoStore       { return &todoStore{s} }
func (s *Store) Projects() store.ProjectStore { return &projectStore{s} }

// Project returns a copy of the stored project, for assertions.
func (s *Store) Project(id uint) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return models.Project{}, false
	}
	return *project, true
}

// Todo returns a copy of the stored todo, for assertions.
func (s *Store) Todo(id uint) (models.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return models.Todo{}, false
	}
	return *todo, true
}

type userStore struct {
	s *Store
}

func (u *userStore) Create(user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}

	u.s.nextUserID++
	user.ID = u.s.nextUserID
	user.CreatedAt = time.Now()

	if user.Theme == "" {
		user.Theme = "light"
	}
	if user.DefaultView == "" {
		user.DefaultView = "all"
	}
	if user.Language == "" {
		user.Language = "en"
	}

	stored := *user
	u.s.users[user.ID] = &stored

	return nil
}

func (u *userStore) ByEmail(email string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}

	return nil, store.ErrNotFound
}

func (u *userStore) ByID(id uint) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	found := *user
	return &found, nil
}

func (u *userStore) Update(id uint, patch store.UserPatch) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return store.ErrNotFound
	}

	if patch.Email != nil {
		for otherID, other := range u.s.users {
			if otherID != id && other.Email == *patch.Email {
				return store.ErrDuplicateEmail
			}
		}
		user.Email = *patch.Email
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.ProfilePic != nil {
		user.ProfilePic = *patch.ProfilePic
	}
	if patch.NotifyPush != nil {
		user.NotifyPush = *patch.NotifyPush
	}
	if patch.NotifyEmail != nil {
		user.NotifyEmail = *patch.NotifyEmail
	}
	if patch.Theme != nil {
		user.Theme = *patch.Theme
	}
	if patch.DefaultView != nil {
		user.DefaultView = *patch.DefaultView
	}
	if patch.Language != nil {
		user.Language = *patch.Language
	}

	return nil
}

type todoStore struct {
	s *Store
}

func (t *todoStore) List(userID uint, projectID *uint) ([]store.TodoRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	var records []store.TodoRecord

	for _, todo := range t.s.todos {
		if todo.UserID != userID {
			continue
		}
		if projectID != nil && (todo.ProjectID == nil || *todo.ProjectID != *projectID) {
			continue
		}

		record := store.TodoRecord{
			ID:        todo.ID,
			UserID:    todo.UserID,
			ProjectID: todo.ProjectID,
			Title:     todo.Title,
			Priority:  todo.Priority,
			DueDate:   todo.DueDate,
			Completed: todo.Completed,
			CreatedAt: todo.CreatedAt,
		}

		if todo.ProjectID != nil {
			if project, ok := t.s.projects[*todo.ProjectID]; ok {
				name := project.Name
				record.ProjectName = &name
			}
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })

	return records, nil
}

func (t *todoStore) Create(todo *models.Todo) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	t.s.nextTodoID++
	todo.ID = t.s.nextTodoID
	todo.CreatedAt = time.Now()

	if todo.Priority == "" {
		todo.Priority = models.PriorityLow
	}

	stored := *todo
	t.s.todos[todo.ID] = &stored

	return nil
}

func (t *todoStore) Update(userID, todoID uint, patch store.TodoPatch) (store.TodoChange, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	todo, ok := t.s.todos[todoID]
	if !ok || todo.UserID != userID {
		return store.TodoChange{}, store.ErrNotFound
	}

	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Priority != nil {
		todo.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		todo.DueDate = patch.DueDate
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}

	return store.TodoChange{Changes: 1, ProjectID: todo.ProjectID}, nil
}

func (t *todoStore) Delete(userID, todoID uint) (store.TodoChange, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	todo, ok := t.s.todos[todoID]
	if !ok || todo.UserID != userID {
		return store.TodoChange{}, store.ErrNotFound
	}

	change := store.TodoChange{Changes: 1, ProjectID: todo.ProjectID}
	delete(t.s.todos, todoID)

	return change, nil
}

type projectStore struct {
	s *Store
}

func (p *projectStore) List(userID uint) ([]store.ProjectSummary, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var summaries []store.ProjectSummary

	for _, project := range p.s.projects {
		if project.UserID != userID {
			continue
		}

		summary := store.ProjectSummary{
			ID:          project.ID,
			UserID:      project.UserID,
			Name:        project.Name,
			Description: project.Description,
			Completed:   project.Completed,
			CreatedAt:   project.CreatedAt,
		}

		for _, todo := range p.s.todos {
			if todo.ProjectID != nil && *todo.ProjectID == project.ID {
				summary.TaskCount++
				if todo.Completed {
					summary.CompletedCount++
				}
			}
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID > summaries[j].ID })

	return summaries, nil
}

func (p *projectStore) Get(userID, projectID uint) (*models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	project, ok := p.s.projects[projectID]
	if !ok || project.UserID != userID {
		return nil, store.ErrNotFound
	}

	found := *project
	return &found, nil
}

func (p *projectStore) Create(project *models.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	p.s.nextProjectID++
	project.ID = p.s.nextProjectID
	project.CreatedAt = time.Now()

	stored := *project
	p.s.projects[project.ID] = &stored

	return nil
}

func (p *projectStore) Delete(userID, projectID uint) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	project, ok := p.s.projects[projectID]
	if !ok || project.UserID != userID {
		return 0, store.ErrNotFound
	}

	for _, todo := range p.s.todos {
		if todo.ProjectID != nil && *todo.ProjectID == projectID {
			todo.ProjectID = nil
		}
	}

	delete(p.s.projects, projectID)

	return 1, nil
}

func (p *projectStore) RecomputeCompletion(projectID uint) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	project, ok := p.s.projects[projectID]
	if !ok {
		return nil
	}

	var total, completed int64

	for _, todo := range p.s.todos {
		if todo.ProjectID != nil && *todo.ProjectID == projectID {
			total++
			if todo.Completed {
				completed++
			}
		}
	}

	project.Completed = total > 0 && completed == total

	return nil
}

func (p *projectStore) ExportData(userID uint) (*store.Snapshot, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var snapshot store.Snapshot

	for _, project := range p.s.projects {
		if project.UserID == userID {
			snapshot.Projects = append(snapshot.Projects, *project)
		}
	}

	for _, todo := range p.s.todos {
		if todo.UserID == userID {
			snapshot.Todos = append(snapshot.Todos, *todo)
		}
	}

	sort.Slice(snapshot.Projects, func(i, j int) bool { return snapshot.Projects[i].ID < snapshot.Projects[j].ID })
	sort.Slice(snapshot.Todos, func(i, j int) bool { return snapshot.Todos[i].ID < snapshot.Todos[j].ID })

	return &snapshot, nil
}

func (p *projectStore) ClearData(userID uint, scope string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if scope == store.ClearTasks || scope == store.ClearAll {
		for id, todo := range p.s.todos {
			if todo.UserID == userID {
				delete(p.s.todos, id)
			}
		}

		// Projects left without todos are never completed.
		for _, project := range p.s.projects {
			if project.UserID == userID {
				project.Completed = false
			}
		}
	}

	if scope == store.ClearProjects || scope == store.ClearAll {
		for _, todo := range p.s.todos {
			if todo.UserID == userID {
				todo.ProjectID = nil
			}
		}
		for id, project := range p.s.projects {
			if project.UserID == userID {
				delete(p.s.projects, id)
			}
		}
	}

	return nil
}
