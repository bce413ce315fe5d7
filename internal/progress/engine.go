// Package progress keeps each project's derived completed flag consistent
// with its todo set.
package progress

import (
	"log"

	"github.com/tasklight-dev/tasklight/internal/store"
)

// Event describes a todo mutation. ProjectID is the project the todo
// belonged to when the mutation ran (nil for unassigned todos).
type Event struct {
	UserID    uint
	ProjectID *uint
}

type Engine struct {
	projects store.ProjectStore
}

func NewEngine(projects store.ProjectStore) *Engine {
	return &Engine{projects: projects}
}

// TaskMutated recomputes the owning project's completed flag after a todo
// create, update, or delete. It runs synchronously in the request that
// mutated the todo, so project state is never observably stale. Failures are
// logged, not returned: the todo mutation has already committed.
func (e *Engine) TaskMutated(event Event) {
	if event.ProjectID == nil {
		return
	}

	if err := e.projects.RecomputeCompletion(*event.ProjectID); err != nil {
		log.Printf("Failed to recompute completion for project %d: %v", *event.ProjectID, err)
	}
}
