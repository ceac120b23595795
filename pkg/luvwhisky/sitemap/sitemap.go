package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Namespace is the sitemap protocol namespace
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one <url> element
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// URLSet is the sitemap document
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Handler serves /sitemap.xml
type Handler struct {
	db      *gorm.DB
	baseURL string
	now     func() time.Time
}

// NewHandler creates a sitemap handler for the site at baseURL
func NewHandler(db *gorm.DB, baseURL string) *Handler {
	return &Handler{
		db:      db,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

func page(loc string, lastMod time.Time, freq string, priority float64) URL {
	return URL{
		Loc:        loc,
		LastMod:    lastMod.UTC().Format(time.RFC3339),
		ChangeFreq: freq,
		Priority:   strconv.FormatFloat(priority, 'f', 1, 64),
	}
}

// Build lists the fixed pages followed by one URL per entry.
func (h *Handler) Build(ctx context.Context) (*URLSet, error) {
	var rows []struct {
		Slug      string
		CreatedAt time.Time
	}
	err := h.db.WithContext(ctx).Model(&models.WhiskyEntry{}).
		Select("slug, created_at").
		Order("created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, database.Translate(err, "entry")
	}

	now := h.now()
	set := &URLSet{
		Xmlns: Namespace,
		URLs: []URL{
			page(h.baseURL, now, "daily", 1.0),
			page(h.baseURL+"/blog", now, "daily", 0.9),
			page(h.baseURL+"/about", now, "monthly", 0.5),
		},
	}
	for _, r := range rows {
		set.URLs = append(set.URLs, page(h.baseURL+"/whisky/"+r.Slug, r.CreatedAt, "monthly", 0.8))
	}
	return set, nil
}

// Sitemap renders the sitemap
func (h *Handler) Sitemap(c *gin.Context) {
	set, err := h.Build(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	body, err := xml.Marshal(set)
	if err != nil {
		apierror.Respond(c, apierror.Internal("failed to render sitemap").WithCause(err))
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

// RegisterRoutes registers /sitemap.xml
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/sitemap.xml", h.Sitemap)
}
