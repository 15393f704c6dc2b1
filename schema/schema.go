// Package schema declares the CMS content types the catalog reads and checks
// fetched documents against them.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	TypeString  = "string"
	TypeText    = "text"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeImage   = "image"
	TypeArray   = "array"
)

type Field struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Of       string   `json:"of,omitempty"`
	Required bool     `json:"required,omitempty"`
	Initial  any      `json:"initialValue,omitempty"`
}

type Document struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Kind   string  `json:"type"`
	Fields []Field `json:"fields"`
}

var CustomizationOption = Document{
	Name:  "customizationOption",
	Title: "Customisation Option",
	Kind:  "object",
	Fields: []Field{
		{Name: "name", Title: "Name", Type: TypeString, Required: true},
		{Name: "description", Title: "Description", Type: TypeText},
		{Name: "additionalCost", Title: "Additional Cost", Type: TypeNumber, Initial: 0},
		{Name: "image", Title: "Image", Type: TypeImage},
	},
}

var Product = Document{
	Name:  "product",
	Title: "Product",
	Kind:  "document",
	Fields: []Field{
		{Name: "name", Title: "Name", Type: TypeString, Required: true},
		{Name: "type", Title: "Type", Type: TypeString, Options: []string{"booth", "structure", "furniture"}, Required: true},
		{Name: "size", Title: "Size", Type: TypeString, Options: []string{"Small", "Medium", "Large"}},
		{Name: "category", Title: "Category", Type: TypeString, Options: []string{"Display", "Counter", "Interactive", "Island"}},
		{Name: "description", Title: "Description", Type: TypeText},
		{Name: "price", Title: "Price", Type: TypeNumber},
		{Name: "priceType", Title: "Price Type", Type: TypeString, Options: []string{"unit", "booth"}},
		{Name: "stockQuantity", Title: "Stock Quantity", Type: TypeNumber},
		{Name: "isCustomizable", Title: "Customisable?", Type: TypeBoolean, Initial: false},
		{Name: "image", Title: "Main Image", Type: TypeImage},
		{Name: "additionalImages", Title: "Thumbnail Images", Type: TypeArray, Of: TypeImage},
		{Name: "customizationOptions", Title: "Customisation Options", Type: TypeArray, Of: "customizationOption"},
		{Name: "status", Title: "Status", Type: TypeString, Options: []string{"available", "booked", "unavailable"}, Initial: "available"},
		{Name: "tags", Title: "Tags", Type: TypeArray, Of: TypeString},
	},
}

var SiteSettings = Document{
	Name:  "siteSettings",
	Title: "Site Settings",
	Kind:  "document",
	Fields: []Field{
		{Name: "siteName", Title: "Site Name", Type: TypeString, Required: true},
		{Name: "navBoothsLabel", Title: "Navigation: Booths Label", Type: TypeString},
		{Name: "navStructuresLabel", Title: "Navigation: Structures Label", Type: TypeString},
		{Name: "navFurnitureLabel", Title: "Navigation: Furniture Label", Type: TypeString},
	},
}

// All lists the declared types in registration order.
func All() []Document {
	return []Document{CustomizationOption, Product, SiteSettings}
}

// Lookup returns the declared type by name.
func Lookup(name string) (Document, bool) {
	for _, d := range All() {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}

// Field returns the named field of the document type.
func (d Document) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Allows reports whether s is an accepted value of a string field. Fields
// without options accept anything; an empty value is accepted unless required.
func (f Field) Allows(s string) bool {
	if s == "" {
		return !f.Required
	}
	return len(f.Options) == 0 || contains(f.Options, s)
}

// Validate checks a projected query record against the document type.
// Image fields are skipped: the query projection replaces them with asset URLs
// under a different key. Nested object arrays are validated recursively.
func (d Document) Validate(rec map[string]any) error {
	var problems []string
	for _, f := range d.Fields {
		if f.Type == TypeImage || (f.Type == TypeArray && f.Of == TypeImage) {
			continue
		}
		v, present := rec[f.Name]
		if !present || v == nil {
			if f.Required {
				problems = append(problems, f.Name+" is required")
			}
			continue
		}
		if msg := f.check(v); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %s", d.Name, strings.Join(problems, ", "))
	}
	return nil
}

func (f Field) check(v any) string {
	switch f.Type {
	case TypeString, TypeText:
		s, ok := v.(string)
		if !ok {
			return f.Name + " must be a string"
		}
		if f.Required && strings.TrimSpace(s) == "" {
			return f.Name + " is required"
		}
		if len(f.Options) > 0 && s != "" && !contains(f.Options, s) {
			return fmt.Sprintf("%s must be one of %s", f.Name, strings.Join(f.Options, "|"))
		}
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			if n < 0 {
				return f.Name + " must not be negative"
			}
		case json.Number:
			fv, err := n.Float64()
			if err != nil {
				return f.Name + " must be a number"
			}
			if fv < 0 {
				return f.Name + " must not be negative"
			}
		default:
			return f.Name + " must be a number"
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return f.Name + " must be a boolean"
		}
	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			return f.Name + " must be an array"
		}
		nested, isObject := Lookup(f.Of)
		for i, it := range items {
			if isObject {
				m, ok := it.(map[string]any)
				if !ok {
					return fmt.Sprintf("%s[%d] must be an object", f.Name, i)
				}
				if err := nested.Validate(m); err != nil {
					return fmt.Sprintf("%s[%d]: %v", f.Name, i, err)
				}
				continue
			}
			if f.Of == TypeString {
				if _, ok := it.(string); !ok {
					return fmt.Sprintf("%s[%d] must be a string", f.Name, i)
				}
			}
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
