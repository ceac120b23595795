package categories

import (
	"context"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm/clause"
)

// Defaults is the category list a fresh install starts with.
var Defaults = []models.Category{
	{Name: "싱글몰트", Order: 1},
	{Name: "블렌디드", Order: 2},
	{Name: "버번", Order: 3},
	{Name: "라이", Order: 4},
	{Name: "아이리시", Order: 5},
	{Name: "재패니즈", Order: 6},
	{Name: "아메리칸", Order: 7},
	{Name: "기타", Order: 8},
}

// SeedDefaults inserts any default category whose name is not taken yet
// and returns how many rows were added. Existing rows keep their order.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	for _, def := range Defaults {
		category := models.Category{Name: def.Name, Order: def.Order}
		result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&category)
		if result.Error != nil {
			return added, database.Translate(result.Error, "category")
		}
		added += int(result.RowsAffected)
	}
	return added, nil
}
