package models

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

// PlaceholderImageURL is served in place of a missing product or option image.
const PlaceholderImageURL = "/Images/placeholder.png"

const (
	TypeBooth     = "booth"
	TypeStructure = "structure"
	TypeFurniture = "furniture"

	PriceTypeUnit  = "unit"
	PriceTypeBooth = "booth"

	StatusAvailable   = "available"
	StatusBooked      = "booked"
	StatusUnavailable = "unavailable"
)

type CustomizationOption struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	AdditionalCost decimal.Decimal `json:"additionalCost"`
	ImageUrl       string          `json:"imageUrl"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

type Product struct {
	Id                   string                `json:"id"`
	Name                 string                `json:"name"`
	Type                 string                `json:"type"`
	Size                 string                `json:"size,omitempty"`
	Category             string                `json:"category,omitempty"`
	Description          string                `json:"description"`
	Price                decimal.Decimal       `json:"price"`
	PriceType            string                `json:"priceType"`
	StockQuantity        int                   `json:"stockQuantity"`
	IsCustomizable       bool                  `json:"isCustomizable"`
	ImageUrl             string                `json:"imageUrl"`
	AdditionalImages     []string              `json:"additionalImages,omitempty"`
	CustomizationOptions []CustomizationOption `json:"customizationOptions,omitempty"`
	Status               string                `json:"status"`
	Tags                 []string              `json:"tags,omitempty"`
	Features             []string              `json:"features,omitempty"`
	Dimensions           *Dimensions           `json:"dimensions,omitempty"`
}

// PrimaryImage returns the product image, or the placeholder when none is set.
func (p Product) PrimaryImage() string {
	if strings.TrimSpace(p.ImageUrl) == "" {
		return PlaceholderImageURL
	}
	return p.ImageUrl
}

// FeatureStrings is the set of strings feature filters match against:
// the explicit features followed by the category.
func (p Product) FeatureStrings() []string {
	res := make([]string, 0, len(p.Features)+1)
	res = append(res, p.Features...)
	if p.Category != "" {
		res = append(res, p.Category)
	}
	return res
}

// Option finds a customization option of the product by id.
func (p Product) Option(id string) (CustomizationOption, bool) {
	for _, o := range p.CustomizationOptions {
		if o.Id == id {
			return o, true
		}
	}
	return CustomizationOption{}, false
}

type SiteSettings struct {
	SiteName           string `json:"siteName"`
	NavBoothsLabel     string `json:"navBoothsLabel"`
	NavStructuresLabel string `json:"navStructuresLabel"`
	NavFurnitureLabel  string `json:"navFurnitureLabel"`
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:           "J&J Booth Builder",
		NavBoothsLabel:     "Booths",
		NavStructuresLabel: "Structures",
		NavFurnitureLabel:  "Furniture",
	}
}

// DimensionBounds holds optional width/depth limits. A nil or zero bound is
// not enforced.
type DimensionBounds struct {
	MinWidth *float64 `json:"minWidth,omitempty"`
	MaxWidth *float64 `json:"maxWidth,omitempty"`
	MinDepth *float64 `json:"minDepth,omitempty"`
	MaxDepth *float64 `json:"maxDepth,omitempty"`
}

func (d DimensionBounds) IsZero() bool {
	return !BoundSet(d.MinWidth) && !BoundSet(d.MaxWidth) && !BoundSet(d.MinDepth) && !BoundSet(d.MaxDepth)
}

// BoundSet reports whether a dimension bound constrains anything.
func BoundSet(b *float64) bool {
	return b != nil && *b != 0
}

// CostSet reports whether the cost ceiling constrains anything.
func (fc FilterCriteria) CostSet() bool {
	return fc.MaxCost != nil && !fc.MaxCost.IsZero()
}

// FilterCriteria narrows the catalog. Every field is optional and an empty
// field imposes no constraint.
//
//   - Types: some entry, lower-cased, starts with the product type.
//   - Sizes: product size is one of the entries.
//   - Features: every entry is a case-insensitive substring of some product feature.
//   - Specifications: some entry equals a product tag or feature, ignoring case.
//   - SearchTerm: case-insensitive substring of name, description, a feature or a tag.
//   - Statuses: product status is one of the entries.
//   - Dimensions: each present, non-zero bound is enforced.
//   - MaxCost: price does not exceed it. Zero means no ceiling.
//   - Tags: some entry exactly equals a product tag.
type FilterCriteria struct {
	Types          []string         `json:"type,omitempty"`
	Sizes          []string         `json:"size,omitempty"`
	Features       []string         `json:"feature,omitempty"`
	Specifications []string         `json:"specification,omitempty"`
	SearchTerm     string           `json:"searchTerm,omitempty"`
	Statuses       []string         `json:"status,omitempty"`
	Dimensions     DimensionBounds  `json:"dimensions"`
	MaxCost        *decimal.Decimal `json:"maxCost,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
}

func (fc FilterCriteria) IsEmpty() bool {
	return len(fc.Types) == 0 && len(fc.Sizes) == 0 && len(fc.Features) == 0 &&
		len(fc.Specifications) == 0 && fc.SearchTerm == "" && len(fc.Statuses) == 0 &&
		fc.Dimensions.IsZero() && !fc.CostSet() && len(fc.Tags) == 0
}

type Congress struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Venue     string          `json:"venue"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Notes     string          `json:"notes,omitempty"`
}

type OrderRequest struct {
	CongressId            string `json:"congressId"`
	RequestedBy           string `json:"requestedBy"`
	StartDate             string `json:"startDate"`
	EndDate               string `json:"endDate"`
	CustomizationRequests string `json:"customizationRequests,omitempty"`
}

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = map[string]string{}
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// Set overwrites the message for field.
func (v *ValidationError) Set(field, msg string) {
	if v.Fields == nil {
		v.Fields = map[string]string{}
	}
	v.Fields[field] = msg
}

// Err returns nil when no field failed.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// ProductRow is the products table layout used by the Postgres source.
type ProductRow struct {
	Id                   string
	Name                 string
	Type                 string
	Size                 *string
	Category             *string
	Description          *string
	Price                decimal.Decimal
	PriceType            string
	StockQuantity        int
	IsCustomizable       bool
	ImageUrl             *string
	AdditionalImages     []byte
	CustomizationOptions []byte
	Status               string
	Tags                 []byte
	Features             []byte
}

const (
	BriefText     = "text"
	BriefTextarea = "textarea"
	BriefSelect   = "select"
	BriefCheckbox = "checkbox"
	BriefDate     = "date"
)

type BriefQuestion struct {
	Id          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Required    bool     `json:"required,omitempty"`
}

type BriefSection struct {
	Id        string          `json:"id"`
	Title     string          `json:"title"`
	Questions []BriefQuestion `json:"questions"`
}

// BriefValue is one answer. Checkbox questions carry a list, the others a
// single string, and both JSON shapes are accepted.
type BriefValue []string

func (v *BriefValue) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*v = BriefValue{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*v = many
	return nil
}

// Answered reports whether any entry is non-blank.
func (v BriefValue) Answered() bool {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
