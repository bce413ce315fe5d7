package store

import (
	"errors"
	"fmt"

	"github.com/tasklight-dev/tasklight/internal/models"
	"gorm.io/gorm"
)

type GormProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *GormProjectStore {
	return &GormProjectStore{db: db}
}

func (s *GormProjectStore) List(userID uint) ([]ProjectSummary, error) {
	var summaries []ProjectSummary

	err := s.db.Model(&models.Project{}).
		Select(`projects.id, projects.user_id, projects.name, projects.description, projects.completed, projects.created_at,
			(SELECT COUNT(*) FROM todos WHERE todos.project_id = projects.id AND todos.deleted_at IS NULL) AS task_count,
			(SELECT COUNT(*) FROM todos WHERE todos.project_id = projects.id AND todos.completed AND todos.deleted_at IS NULL) AS completed_count`).
		Where("projects.user_id = ?", userID).
		Order("projects.id DESC").
		Find(&summaries).Error

	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (s *GormProjectStore) Get(userID, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

func (s *GormProjectStore) Create(project *models.Project) error {
	return s.db.Create(project).Error
}

func (s *GormProjectStore) Delete(userID, projectID uint) (int64, error) {
	var changes int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		if err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Orphan the project's todos rather than deleting them; they
		// survive as unassigned todos.
		if err := tx.Model(&models.Todo{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("project_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&project)

		if res.Error != nil {
			return res.Error
		}

		changes = res.RowsAffected

		return nil
	})

	return changes, err
}

func (s *GormProjectStore) RecomputeCompletion(projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var total, completed int64

		if err := tx.Model(&models.Todo{}).
			Where("project_id = ?", projectID).
			Count(&total).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Todo{}).
			Where("project_id = ? AND completed = ?", projectID, true).
			Count(&completed).Error; err != nil {
			return err
		}

		// A project with no todos is never completed.
		done := total > 0 && completed == total

		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Update("completed", done).Error
	})
}

func (s *GormProjectStore) ExportData(userID uint) (*Snapshot, error) {
	var snapshot Snapshot

	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&snapshot.Projects).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&snapshot.Todos).Error; err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (s *GormProjectStore) ClearData(userID uint, scope string) error {
	switch scope {
	case ClearTasks, ClearProjects, ClearAll:
	default:
		return fmt.Errorf("unknown clear scope %q", scope)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if scope == ClearTasks || scope == ClearAll {
			if err := tx.Where("user_id = ?", userID).Delete(&models.Todo{}).Error; err != nil {
				return err
			}

			// Every surviving project now has zero todos, and a project
			// with zero todos is never completed.
			if err := tx.Model(&models.Project{}).
				Where("user_id = ?", userID).
				Update("completed", false).Error; err != nil {
				return err
			}
		}

		if scope == ClearProjects || scope == ClearAll {
			// Surviving todos lose their project reference, matching
			// single-project deletion.
			if err := tx.Model(&models.Todo{}).
				Where("user_id = ?", userID).
				Update("project_id", nil).Error; err != nil {
				return err
			}

			if err := tx.Where("user_id = ?", userID).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
