package entries

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FlexValue holds a form value that may arrive as a JSON string or number.
// The raw text is kept and parsed on demand; null, "" and whitespace are
// all treated as absent.
//
// A numeric zero (0 or "0") is a real value and is stored as 0. Clients that
// relied on zero being dropped as empty must send null or "" instead.
type FlexValue string

// UnmarshalJSON accepts strings, numbers and null.
func (v *FlexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FlexValue(n.String())
	return nil
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Int parses the leading integer of the value, truncating anything after
// it ("12.9" → 12, "4000円" → 4000). No leading digits means absent.
func (v FlexValue) Int() *int {
	m := leadingInt.FindString(strings.TrimSpace(string(v)))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// Float parses the leading decimal number of the value ("46.3%" → 46.3).
// No leading number means absent.
func (v FlexValue) Float() *float64 {
	m := leadingFloat.FindString(strings.TrimSpace(string(v)))
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Date parses YYYY-MM-DD or an RFC3339 timestamp. Anything else is absent.
func (v FlexValue) Date() *time.Time {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// EntryInput is the full set of writable entry fields. Create and update
// both take the whole record: a field left out of an update is cleared.
type EntryInput struct {
	Title        string    `json:"title" binding:"required"`
	Category     string    `json:"category" binding:"required"`
	Distillery   string    `json:"distillery"`
	Age          FlexValue `json:"age"`
	ABV          FlexValue `json:"abv"`
	Rating       FlexValue `json:"rating"`
	CoverImage   string    `json:"cover_image"`
	Nose         string    `json:"nose"`
	Palate       string    `json:"palate"`
	Finish       string    `json:"finish"`
	Impression   string    `json:"impression"`
	Price        FlexValue `json:"price"`
	PurchaseDate FlexValue `json:"purchase_date"`
	Description  string    `json:"description"`
	Notes        string    `json:"notes"`
	Tags         []string  `json:"tags"`

	// camelCase spellings used by the original admin form. The snake_case
	// field wins when both are sent.
	CoverImageAlias   string    `json:"coverImage" swaggerignore:"true"`
	PurchaseDateAlias FlexValue `json:"purchaseDate" swaggerignore:"true"`
}

func (in EntryInput) coverImage() string {
	if strings.TrimSpace(in.CoverImage) == "" {
		return in.CoverImageAlias
	}
	return in.CoverImage
}

func (in EntryInput) purchaseDate() FlexValue {
	if strings.TrimSpace(string(in.PurchaseDate)) == "" {
		return in.PurchaseDateAlias
	}
	return in.PurchaseDate
}

// optionalText maps blank text to nil.
func optionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
