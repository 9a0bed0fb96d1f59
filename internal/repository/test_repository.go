package repository

import (
	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	FindByID(id uuid.UUID) (*model.Test, error)
	FindByIDWithQuestions(id uuid.UUID) (*model.Test, error)
	FindAllByCreator(adminID uuid.UUID) ([]model.Test, error)
	Update(test *model.Test) error
	Deactivate(id uuid.UUID) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// GORM creates the associated questions when test.Questions is populated.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uuid.UUID) (*model.Test, error) {
	var test model.Test
	err := r.db.First(&test, "id = ? AND is_active = true", id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindByIDWithQuestions(id uuid.UUID) (*model.Test, error) {
	var test model.Test
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.question_order ASC")
	}).First(&test, "id = ? AND is_active = true", id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAllByCreator(adminID uuid.UUID) ([]model.Test, error) {
	var tests []model.Test
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.question_order ASC")
	}).
		Where("created_by = ? AND is_active = true", adminID).
		Order("created_at DESC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}

func (r *testRepository) Deactivate(id uuid.UUID) error {
	return r.db.Model(&model.Test{}).Where("id = ?", id).Update("is_active", false).Error
}
