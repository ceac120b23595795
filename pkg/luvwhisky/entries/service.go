package entries

import (
	"context"
	"math"
	"strings"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/slug"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/tags"
	"gorm.io/gorm"
)

// MaxPageSize caps the limit accepted by ListEntries.
const MaxPageSize = 100

// Service implements the whisky entry operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new entry service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListFilter narrows ListEntries. The zero value lists everything.
type ListFilter struct {
	Category string
	// Rating matches entries whose rating rounds half-up to this value.
	// Zero means no rating filter.
	Rating int
	Tag    string
	// Limit of zero returns the full list.
	Limit  int
	Offset int
}

// withTags preloads tag links in link order together with their tags.
func withTags(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TagLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("TagLinks.Tag")
}

// ListEntries returns entries newest first, with tags resolved.
func (s *Service) ListEntries(ctx context.Context, f ListFilter) ([]models.WhiskyEntry, error) {
	query := withTags(s.db.WithContext(ctx)).Order("created_at DESC").Order("id ASC")

	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Rating > 0 {
		lo := float64(f.Rating) - 0.5
		query = query.Where("rating IS NOT NULL AND rating >= ? AND rating < ?", lo, lo+1)
	}
	if f.Tag != "" {
		query = query.Where(
			"id IN (?)",
			s.db.Table("whisky_tags").
				Select("whisky_tags.whisky_id").
				Joins("JOIN tags ON tags.id = whisky_tags.tag_id").
				Where("tags.name = ?", f.Tag),
		)
	}
	if f.Limit > 0 {
		if f.Limit > MaxPageSize {
			f.Limit = MaxPageSize
		}
		query = query.Limit(f.Limit)
		if f.Offset > 0 {
			query = query.Offset(f.Offset)
		}
	}

	var list []models.WhiskyEntry
	if err := query.Find(&list).Error; err != nil {
		return nil, database.Translate(err, "entry")
	}
	return list, nil
}

// GetEntry returns one entry by id.
func (s *Service) GetEntry(ctx context.Context, id string) (*models.WhiskyEntry, error) {
	return s.getEntry(s.db.WithContext(ctx), id)
}

func (s *Service) getEntry(tx *gorm.DB, id string) (*models.WhiskyEntry, error) {
	var entry models.WhiskyEntry
	if err := withTags(tx).Where("id = ?", id).Take(&entry).Error; err != nil {
		return nil, database.Translate(err, "entry")
	}
	return &entry, nil
}

// GetEntryBySlug returns the most recently created entry with the slug.
func (s *Service) GetEntryBySlug(ctx context.Context, entrySlug string) (*models.WhiskyEntry, error) {
	var entry models.WhiskyEntry
	err := withTags(s.db.WithContext(ctx)).
		Where("slug = ?", entrySlug).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, database.Translate(err, "entry")
	}
	return &entry, nil
}

// validate checks the required fields.
func validate(in EntryInput) error {
	details := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		details["category"] = "is required"
	}
	if len(details) > 0 {
		return apierror.Validation("validation failed").WithDetails(details)
	}
	return nil
}

// apply overwrites every writable field of entry from in. Blank or
// unparseable optional values become null.
func apply(entry *models.WhiskyEntry, in EntryInput) {
	entry.Title = in.Title
	entry.Slug = slug.Make(in.Title)
	entry.Category = in.Category
	entry.Distillery = optionalText(in.Distillery)
	entry.Age = in.Age.Int()
	entry.ABV = in.ABV.Float()
	entry.Rating = in.Rating.Float()
	entry.CoverImage = optionalText(in.coverImage())
	entry.Nose = optionalText(in.Nose)
	entry.Palate = optionalText(in.Palate)
	entry.Finish = optionalText(in.Finish)
	entry.Impression = optionalText(in.Impression)
	entry.Price = in.Price.Int()
	entry.PurchaseDate = in.purchaseDate().Date()
	entry.Description = optionalText(in.Description)
	entry.Notes = optionalText(in.Notes)
}

// CreateEntry stores a new entry and links its tags, creating tags that do
// not exist yet.
func (s *Service) CreateEntry(ctx context.Context, in EntryInput) (*models.WhiskyEntry, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	var created *models.WhiskyEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.WhiskyEntry{}
		apply(&entry, in)
		if err := tx.Omit("TagLinks").Create(&entry).Error; err != nil {
			return err
		}

		links, err := tags.LinkAll(tx, entry.ID, in.Tags)
		if err != nil {
			return err
		}
		entry.TagLinks = links
		created = &entry
		return nil
	})
	if err != nil {
		return nil, database.Translate(err, "entry")
	}
	return created, nil
}

// UpdateEntry replaces every field of an entry and its full tag set.
// The slug is recomputed from the title, so renaming moves the entry's
// public address.
func (s *Service) UpdateEntry(ctx context.Context, id string, in EntryInput) (*models.WhiskyEntry, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	var updated *models.WhiskyEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.WhiskyEntry
		if err := tx.Where("id = ?", id).Take(&entry).Error; err != nil {
			return err
		}

		if err := tx.Where("whisky_id = ?", entry.ID).Delete(&models.TagLink{}).Error; err != nil {
			return err
		}

		apply(&entry, in)
		// Select("*") so cleared fields are written as NULL.
		if err := tx.Model(&entry).Select("*").Omit("id", "created_at", "TagLinks").Updates(&entry).Error; err != nil {
			return err
		}

		if _, err := tags.LinkAll(tx, entry.ID, in.Tags); err != nil {
			return err
		}

		reloaded, err := s.getEntry(tx, entry.ID)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, database.Translate(err, "entry")
	}
	return updated, nil
}

// DeleteEntry removes an entry together with its tag links. Tags are kept.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("whisky_id = ?", id).Delete(&models.TagLink{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.WhiskyEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return database.Translate(err, "entry")
}

// Count is one facet value with the number of entries carrying it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// RatingCount is the number of entries in one rounded rating bucket.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// Facets summarizes the entry list for the blog filters.
type Facets struct {
	Categories []Count       `json:"categories"`
	Ratings    []RatingCount `json:"ratings"`
	Tags       []Count       `json:"tags"`
}

// RatingBucket rounds a rating half-up, the way the blog filter does.
func RatingBucket(r float64) int {
	return int(math.Floor(r + 0.5))
}

// Facets counts entries per category, per rounded rating 1..5 and per
// linked tag. Tags with no entries are left out.
func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	db := s.db.WithContext(ctx)
	facets := &Facets{
		Categories: []Count{},
		Ratings:    make([]RatingCount, 0, 5),
		Tags:       []Count{},
	}

	err := db.Model(&models.WhiskyEntry{}).
		Select("category AS value, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&facets.Categories).Error
	if err != nil {
		return nil, database.Translate(err, "entry")
	}

	err = db.Table("whisky_tags").
		Select("tags.name AS value, COUNT(*) AS count").
		Joins("JOIN tags ON tags.id = whisky_tags.tag_id").
		Group("tags.name").
		Order("count DESC, tags.name ASC").
		Scan(&facets.Tags).Error
	if err != nil {
		return nil, database.Translate(err, "tag")
	}

	var ratings []float64
	err = db.Model(&models.WhiskyEntry{}).
		Where("rating IS NOT NULL").
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, database.Translate(err, "entry")
	}
	var buckets [6]int
	for _, r := range ratings {
		if b := RatingBucket(r); b >= 1 && b <= 5 {
			buckets[b]++
		}
	}
	for r := 5; r >= 1; r-- {
		facets.Ratings = append(facets.Ratings, RatingCount{Rating: r, Count: buckets[r]})
	}

	return facets, nil
}
