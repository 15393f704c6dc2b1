package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"boothStore/models"

	"github.com/shopspring/decimal"
)

// ApplyFilter returns the products satisfying every criterion, in input order.
// Empty criteria return the input slice itself.
func ApplyFilter(products []models.Product, fc models.FilterCriteria) []models.Product {
	if fc.IsEmpty() {
		return products
	}
	res := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, fc) {
			res = append(res, p)
		}
	}
	return res
}

func matches(p models.Product, fc models.FilterCriteria) bool {
	if fc.SearchTerm != "" && !matchesSearch(p, fc.SearchTerm) {
		return false
	}
	if len(fc.Types) > 0 && !matchesType(p, fc.Types) {
		return false
	}
	if len(fc.Sizes) > 0 && (p.Size == "" || !containsExact(fc.Sizes, p.Size)) {
		return false
	}
	if len(fc.Statuses) > 0 && !containsExact(fc.Statuses, p.Status) {
		return false
	}
	if len(fc.Features) > 0 && !hasAllFeatures(p, fc.Features) {
		return false
	}
	if len(fc.Specifications) > 0 && !matchesSpecification(p, fc.Specifications) {
		return false
	}
	if !withinDimensions(p, fc.Dimensions) {
		return false
	}
	if fc.CostSet() && p.Price.GreaterThan(*fc.MaxCost) {
		return false
	}
	if len(fc.Tags) > 0 && !hasAnyTag(p, fc.Tags) {
		return false
	}
	return true
}

func matchesSearch(p models.Product, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// "Booths" selects type "booth".
func matchesType(p models.Product, types []string) bool {
	if p.Type == "" {
		return false
	}
	for _, t := range types {
		if strings.HasPrefix(strings.ToLower(t), p.Type) {
			return true
		}
	}
	return false
}

// every requested feature must be a substring of one product feature
func hasAllFeatures(p models.Product, features []string) bool {
	own := p.FeatureStrings()
	for _, f := range features {
		needle := strings.ToLower(f)
		found := false
		for _, o := range own {
			if strings.Contains(strings.ToLower(o), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesSpecification(p models.Product, specs []string) bool {
	for _, s := range specs {
		for _, t := range p.Tags {
			if strings.EqualFold(s, t) {
				return true
			}
		}
		for _, f := range p.Features {
			if strings.EqualFold(s, f) {
				return true
			}
		}
	}
	return false
}

func withinDimensions(p models.Product, b models.DimensionBounds) bool {
	if b.IsZero() {
		return true
	}
	if p.Dimensions == nil {
		return false
	}
	d := p.Dimensions
	if models.BoundSet(b.MinWidth) && d.Width < *b.MinWidth {
		return false
	}
	if models.BoundSet(b.MaxWidth) && d.Width > *b.MaxWidth {
		return false
	}
	if models.BoundSet(b.MinDepth) && d.Depth < *b.MinDepth {
		return false
	}
	if models.BoundSet(b.MaxDepth) && d.Depth > *b.MaxDepth {
		return false
	}
	return true
}

// tags match exactly, any one is enough
func hasAnyTag(p models.Product, tags []string) bool {
	for _, t := range tags {
		if containsExact(p.Tags, t) {
			return true
		}
	}
	return false
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseFilterCriteria reads criteria from query parameters. List parameters
// may repeat or hold comma-separated values.
func ParseFilterCriteria(q url.Values) (fc models.FilterCriteria, err error) {
	fc.Types = listParam(q, "type")
	fc.Sizes = listParam(q, "size")
	fc.Features = listParam(q, "feature")
	fc.Specifications = listParam(q, "specification")
	fc.Statuses = listParam(q, "status")
	fc.Tags = listParam(q, "tag")
	fc.SearchTerm = strings.TrimSpace(q.Get("q"))

	if fc.Dimensions.MinWidth, err = floatParam(q, "minWidth"); err != nil {
		return
	}
	if fc.Dimensions.MaxWidth, err = floatParam(q, "maxWidth"); err != nil {
		return
	}
	if fc.Dimensions.MinDepth, err = floatParam(q, "minDepth"); err != nil {
		return
	}
	if fc.Dimensions.MaxDepth, err = floatParam(q, "maxDepth"); err != nil {
		return
	}
	if v := strings.TrimSpace(q.Get("maxCost")); v != "" {
		d, e := decimal.NewFromString(v)
		if e != nil {
			err = fmt.Errorf("%w: maxCost %q", models.ErrBadRequest, v)
			return
		}
		fc.MaxCost = &d
	}
	return
}

func listParam(q url.Values, key string) []string {
	var res []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				res = append(res, v)
			}
		}
	}
	return res
}

func floatParam(q url.Values, key string) (*float64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", models.ErrBadRequest, key, v)
	}
	return &f, nil
}
