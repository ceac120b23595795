package categories

import (
	"context"
	"strings"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Service manages the curated category list.
type Service struct {
	db *gorm.DB
}

// NewService creates a new category service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Update holds the fields of a partial category update. Nil fields are
// left unchanged.
type Update struct {
	Name  *string
	Order *int
}

// List returns every category by display order, ties broken by name.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&list).Error; err != nil {
		return nil, database.Translate(err, "category")
	}
	return list, nil
}

// Create adds a category. A name already in use is a conflict.
func (s *Service) Create(ctx context.Context, name string, order int) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierror.Validation("name is required").WithDetails(map[string]string{"name": "is required"})
	}

	category := models.Category{Name: name, Order: order}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, database.Translate(err, "category")
	}
	return &category, nil
}

// Update changes only the provided fields of a category.
func (s *Service) Update(ctx context.Context, id string, u Update) (*models.Category, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, apierror.Validation("name must not be blank").WithDetails(map[string]string{"name": "must not be blank"})
	}

	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&category).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if u.Name != nil {
			updates["name"] = *u.Name
		}
		if u.Order != nil {
			updates["sort_order"] = *u.Order
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&category).Error
	})
	if err != nil {
		return nil, database.Translate(err, "category")
	}
	return &category, nil
}

// Delete removes a category. Entries filed under its name are untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return database.Translate(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return apierror.NotFound("category not found")
	}
	return nil
}
