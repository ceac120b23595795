package importexport

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/entries"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Service moves entries in and out of the store. Every imported entry
// goes through entries.Service.CreateEntry so slugs and tags follow the
// same rules as the editor.
type Service struct {
	db      *gorm.DB
	entries *entries.Service
}

// NewService creates an import/export service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, entries: entries.NewService(db)}
}

// ExportEntry is one entry in a backup document. It has the shape the
// import endpoint accepts.
type ExportEntry struct {
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Distillery   *string  `json:"distillery"`
	Age          *int     `json:"age"`
	ABV          *float64 `json:"abv"`
	Rating       *float64 `json:"rating"`
	CoverImage   *string  `json:"cover_image"`
	Nose         *string  `json:"nose"`
	Palate       *string  `json:"palate"`
	Finish       *string  `json:"finish"`
	Impression   *string  `json:"impression"`
	Price        *int     `json:"price"`
	PurchaseDate *string  `json:"purchase_date"`
	Description  *string  `json:"description"`
	Notes        *string  `json:"notes"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
}

// Document is a full backup
type Document struct {
	ExportedAt string        `json:"exported_at"`
	Entries    []ExportEntry `json:"entries"`
}

// ImportEntry is an entry to import. CreatedAt, when it parses as
// RFC3339, replaces the creation time so restored backups keep their order.
type ImportEntry struct {
	entries.EntryInput
	CreatedAt string `json:"created_at"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

func (r *ImportResult) skip(i int, title string, err error) {
	r.Skipped++
	if title == "" {
		r.Errors = append(r.Errors, fmt.Sprintf("entry %d: %v", i, err))
		return
	}
	r.Errors = append(r.Errors, fmt.Sprintf("entry %d (%s): %v", i, title, err))
}

func exportEntry(e models.WhiskyEntry) ExportEntry {
	out := ExportEntry{
		Title:       e.Title,
		Category:    e.Category,
		Distillery:  e.Distillery,
		Age:         e.Age,
		ABV:         e.ABV,
		Rating:      e.Rating,
		CoverImage:  e.CoverImage,
		Nose:        e.Nose,
		Palate:      e.Palate,
		Finish:      e.Finish,
		Impression:  e.Impression,
		Price:       e.Price,
		Description: e.Description,
		Notes:       e.Notes,
		Tags:        e.TagNames(),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.PurchaseDate != nil {
		d := e.PurchaseDate.UTC().Format(time.DateOnly)
		out.PurchaseDate = &d
	}
	return out
}

// Export returns every entry, newest first.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	list, err := s.entries.ListEntries(ctx, entries.ListFilter{})
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, len(list)),
	}
	for i, e := range list {
		doc.Entries[i] = exportEntry(e)
	}
	return doc, nil
}

// Import creates one entry per item. A failing item is skipped and
// reported; it does not stop the rest.
func (s *Service) Import(ctx context.Context, items []ImportEntry) ImportResult {
	result := ImportResult{Errors: []string{}}

	for i, item := range items {
		entry, err := s.entries.CreateEntry(ctx, item.EntryInput)
		if err != nil {
			result.skip(i, item.Title, err)
			continue
		}

		if item.CreatedAt != "" {
			if at, perr := time.Parse(time.RFC3339, item.CreatedAt); perr == nil {
				err = s.db.WithContext(ctx).Model(&models.WhiskyEntry{}).
					Where("id = ?", entry.ID).
					UpdateColumn("created_at", at.UTC()).Error
				if err != nil {
					logging.Warn().Err(err).Str("entry_id", entry.ID).Msg("Failed to restore entry creation time")
					result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, item.Title, database.Translate(err, "entry")))
				}
			}
		}

		result.Imported++
	}

	logging.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Entry import finished")
	return result
}

// localized is a Contentful field value keyed by locale
type localized[T any] map[string]T

// DefaultLocale is the Contentful locale read from exports.
const DefaultLocale = "en-US"

func (l localized[T]) value() T {
	if v, ok := l[DefaultLocale]; ok {
		return v
	}
	var zero T
	return zero
}

// ContentfulContent is the structured body of a Contentful whisky entry
type ContentfulContent struct {
	Tags       []string `json:"tags"`
	Impression []string `json:"impression"`
}

// ContentfulEntry is one entry of a Contentful space export
type ContentfulEntry struct {
	Sys struct {
		ID          string `json:"id"`
		ContentType struct {
			Sys struct {
				ID string `json:"id"`
			} `json:"sys"`
		} `json:"contentType"`
	} `json:"sys"`
	Fields struct {
		Title       localized[string]            `json:"title"`
		Types       localized[string]            `json:"types"`
		Years       localized[entries.FlexValue] `json:"years"`
		Price       localized[entries.FlexValue] `json:"price"`
		Description localized[string]            `json:"description"`
		Content     localized[ContentfulContent] `json:"content"`
	} `json:"fields"`
}

// ContentfulExport is the JSON written by `contentful space export`.
// Assets are ignored: cover images are uploaded again from the admin.
type ContentfulExport struct {
	Entries []ContentfulEntry `json:"entries"`
}

// ContentfulContentType is the content type holding whisky notes
const ContentfulContentType = "whisky"

var digitRun = regexp.MustCompile(`\d+`)

// FromContentful maps a Contentful whisky entry onto an entry input.
// years is read like an integer prefix, so "NAS" means no age; price
// keeps the first run of digits ("4000円" → 4000).
func FromContentful(ce ContentfulEntry) entries.EntryInput {
	f := ce.Fields
	in := entries.EntryInput{
		Title:       f.Title.value(),
		Category:    f.Types.value(),
		Age:         f.Years.value(),
		Price:       entries.FlexValue(digitRun.FindString(string(f.Price.value()))),
		Description: f.Description.value(),
	}

	content := f.Content.value()
	in.Tags = content.Tags
	if len(content.Impression) > 0 {
		in.Impression = content.Impression[0]
	}
	return in
}

// ImportContentful imports the whisky entries of a Contentful export.
// Entries of other content types are ignored.
func (s *Service) ImportContentful(ctx context.Context, export ContentfulExport) ImportResult {
	var items []ImportEntry
	for _, ce := range export.Entries {
		if ce.Sys.ContentType.Sys.ID != ContentfulContentType {
			continue
		}
		items = append(items, ImportEntry{EntryInput: FromContentful(ce)})
	}
	return s.Import(ctx, items)
}
