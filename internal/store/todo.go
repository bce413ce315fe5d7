package store

import (
	"errors"

	"github.com/tasklight-dev/tasklight/internal/models"
	"gorm.io/gorm"
)

type GormTodoStore struct {
	db *gorm.DB
}

func NewTodoStore(db *gorm.DB) *GormTodoStore {
	return &GormTodoStore{db: db}
}

func (s *GormTodoStore) List(userID uint, projectID *uint) ([]TodoRecord, error) {
	query := s.db.Model(&models.Todo{}).
		Select("todos.id, todos.user_id, todos.project_id, todos.title, todos.priority, todos.due_date, todos.completed, todos.created_at, projects.name AS project_name").
		Joins("LEFT JOIN projects ON projects.id = todos.project_id AND projects.deleted_at IS NULL").
		Where("todos.user_id = ?", userID).
		Order("todos.id DESC")

	if projectID != nil {
		query = query.Where("todos.project_id = ?", *projectID)
	}

	var records []TodoRecord

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (s *GormTodoStore) Create(todo *models.Todo) error {
	return s.db.Create(todo).Error
}

func (s *GormTodoStore) Update(userID, todoID uint, patch TodoPatch) (TodoChange, error) {
	var change TodoChange

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var todo models.Todo

		if err := tx.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		change.ProjectID = todo.ProjectID

		updates := make(map[string]interface{})

		if patch.Title != nil {
			updates["title"] = *patch.Title
		}

		if patch.Priority != nil {
			updates["priority"] = *patch.Priority
		}

		if patch.DueDate != nil {
			updates["due_date"] = *patch.DueDate
		}

		if patch.Completed != nil {
			updates["completed"] = *patch.Completed
		}

		// A patch with no fields still matched a row; report one change
		// to mirror an unconditional UPDATE of the same row.
		if len(updates) == 0 {
			change.Changes = 1
			return nil
		}

		res := tx.Model(&todo).Updates(updates)

		if res.Error != nil {
			return res.Error
		}

		change.Changes = res.RowsAffected

		return nil
	})

	return change, err
}

func (s *GormTodoStore) Delete(userID, todoID uint) (TodoChange, error) {
	var change TodoChange

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var todo models.Todo

		if err := tx.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Capture the project reference before the row disappears; the
		// caller needs it to recompute that project's completion state.
		change.ProjectID = todo.ProjectID

		res := tx.Delete(&todo)

		if res.Error != nil {
			return res.Error
		}

		change.Changes = res.RowsAffected

		return nil
	})

	return change, err
}
