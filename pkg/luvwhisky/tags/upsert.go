package tags

import (
	"errors"
	"strings"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertByName returns the tag row for name, creating it when missing.
// The insert is a no-op on a name conflict, so two callers racing on the
// same new name both end up with the single surviving row.
func UpsertByName(tx *gorm.DB, name string) (models.TagMaster, error) {
	var tag models.TagMaster
	err := tx.Where("name = ?", name).Take(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TagMaster{}, err
	}
	return insertTag(tx, name)
}

// insertTag inserts name unless a row already holds it, then returns the
// stored row either way.
func insertTag(tx *gorm.DB, name string) (models.TagMaster, error) {
	tag := models.TagMaster{Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error; err != nil {
		return models.TagMaster{}, err
	}

	// Re-read: on conflict the row we tried to insert was dropped and tag.ID
	// does not exist.
	var stored models.TagMaster
	if err := tx.Where("name = ?", name).Take(&stored).Error; err != nil {
		return models.TagMaster{}, err
	}
	return stored, nil
}

// Normalize prepares a requested tag list: names that are blank are dropped
// and repeats are removed keeping the first occurrence. Names are otherwise
// kept exactly as given, matching is case-sensitive.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// LinkAll upserts every name and links it to the entry in order.
// Existing links must already have been removed by the caller.
func LinkAll(tx *gorm.DB, entryID string, names []string) ([]models.TagLink, error) {
	names = Normalize(names)
	links := make([]models.TagLink, 0, len(names))
	for i, name := range names {
		tag, err := UpsertByName(tx, name)
		if err != nil {
			return nil, err
		}
		links = append(links, models.TagLink{
			EntryID:  entryID,
			TagID:    tag.ID,
			Position: i,
			Tag:      tag,
		})
	}

	if len(links) == 0 {
		return links, nil
	}
	if err := tx.Omit("Tag").Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
