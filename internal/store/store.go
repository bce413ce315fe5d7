// Package store holds the persistence layer. Every query that touches a
// user-owned row is filtered by user id, and a missing row is reported the
// same way as a row owned by somebody else so that ids never leak across
// accounts.
package store

import (
	"errors"
	"time"

	"github.com/tasklight-dev/tasklight/internal/models"
	"gorm.io/datatypes"
)

var (
	// ErrNotFound covers both "no such row" and "row owned by another
	// user". Callers must not distinguish the two.
	ErrNotFound = errors.New("record not found or unauthorized")

	// ErrDuplicateEmail is returned when a register or profile update
	// would reuse another account's email address.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Data-clearing scopes accepted by ProjectStore.ClearData.
const (
	ClearTasks    = "tasks"
	ClearProjects = "projects"
	ClearAll      = "all"
)

type UserStore interface {
	Create(user *models.User) error
	ByEmail(email string) (*models.User, error)
	ByID(id uint) (*models.User, error)
	Update(id uint, patch UserPatch) error
}

// UserPatch applies only its non-nil fields; everything else keeps its
// current value.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	ProfilePic   *string
	NotifyPush   *bool
	NotifyEmail  *bool
	Theme        *string
	DefaultView  *string
	Language     *string
}

type TodoStore interface {
	// List returns the user's todos newest first, optionally restricted
	// to one project, with the owning project's name joined in.
	List(userID uint, projectID *uint) ([]TodoRecord, error)
	Create(todo *models.Todo) error
	Update(userID, todoID uint, patch TodoPatch) (TodoChange, error)
	Delete(userID, todoID uint) (TodoChange, error)
}

// TodoRecord is a list row: the todo plus display-only project name.
type TodoRecord struct {
	ID          uint
	UserID      uint
	ProjectID   *uint
	ProjectName *string
	Title       string
	Priority    string
	DueDate     *datatypes.Date
	Completed   bool
	CreatedAt   time.Time
}

// TodoPatch applies only its non-nil fields.
type TodoPatch struct {
	Title     *string
	Priority  *string
	DueDate   *datatypes.Date
	Completed *bool
}

// TodoChange reports the outcome of a todo mutation. ProjectID is the
// project the todo belonged to when the mutation ran (captured before a
// delete), so the caller can recompute that project's completion state.
type TodoChange struct {
	Changes   int64
	ProjectID *uint
}

type ProjectStore interface {
	List(userID uint) ([]ProjectSummary, error)
	Get(userID, projectID uint) (*models.Project, error)
	Create(project *models.Project) error
	// Delete removes the project and orphans its todos by clearing their
	// project reference.
	Delete(userID, projectID uint) (int64, error)
	// RecomputeCompletion re-derives the project's completed flag from
	// its current todo set, inside a single transaction. Idempotent.
	RecomputeCompletion(projectID uint) error
	ExportData(userID uint) (*Snapshot, error)
	ClearData(userID uint, scope string) error
}

// ProjectSummary is a list row: the project plus todo counts computed at
// read time.
type ProjectSummary struct {
	ID             uint
	UserID         uint
	Name           string
	Description    string
	Completed      bool
	CreatedAt      time.Time
	TaskCount      int64
	CompletedCount int64
}

// Snapshot is a user's full data set, used for export.
type Snapshot struct {
	Projects []models.Project
	Todos    []models.Todo
}
