package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"boothStore/models"
	"boothStore/schema"

	"go.uber.org/zap"
)

const productFields = `
  "id": _id,
  name,
  type,
  size,
  category,
  description,
  price,
  priceType,
  stockQuantity,
  isCustomizable,
  "imageUrl": image.asset->url,
  "additionalImages": additionalImages[].asset->url,
  customizationOptions[] {
    "id": _key,
    name,
    description,
    additionalCost,
    "imageUrl": image.asset->url
  },
  status,
  tags
`

const productsQuery = `*[_type == "product"] | order(_createdAt asc) {` + productFields + `}`

const siteSettingsQuery = `*[_type == "siteSettings" && _id == "siteSettings"][0] {
  siteName,
  navBoothsLabel,
  navStructuresLabel,
  navFurnitureLabel
}`

type CMSConfig struct {
	ProjectId  string
	Dataset    string
	ApiVersion string
	UseCdn     bool
	// BaseUrl replaces the host derived from ProjectId, e.g. for a proxy.
	BaseUrl string
}

type CMSSource struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewCMSSource(cfg CMSConfig, client *http.Client, logger *zap.Logger) (ProductSource, error) {
	if cfg.ProjectId == "" && cfg.BaseUrl == "" {
		return nil, errors.New("cms project id must be set")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.ApiVersion == "" {
		cfg.ApiVersion = "2024-01-01"
	}
	base := cfg.BaseUrl
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCdn {
			host = "apicdn.sanity.io"
		}
		base = "https://" + cfg.ProjectId + "." + host
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CMSSource{
		endpoint: strings.TrimRight(base, "/") + "/v" + strings.TrimPrefix(cfg.ApiVersion, "v") + "/data/query/" + url.PathEscape(cfg.Dataset),
		client:   client,
		log:      logger,
	}, nil
}

func (c *CMSSource) Name() string {
	return "cms"
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *CMSSource) query(ctx context.Context, groq string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?query="+url.QueryEscape(groq), nil)
	if err != nil {
		return nil, fmt.Errorf("build cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read cms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cms responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("decode cms response: %w", err)
	}
	return qr.Result, nil
}

func (c *CMSSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := c.query(ctx, productsQuery)
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		if err := schema.Product.Validate(doc); err != nil {
			c.log.Warn("GetProducts: dropping document", zap.Any("id", doc["id"]), zap.Error(err))
			continue
		}
		p, err := productFromDocument(doc)
		if err != nil {
			c.log.Warn("GetProducts: dropping document", zap.Any("id", doc["id"]), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func productFromDocument(doc map[string]any) (p models.Product, err error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err = json.Unmarshal(b, &p); err != nil {
		return
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	return
}

func (c *CMSSource) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	raw, err := c.query(ctx, siteSettingsQuery)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s models.SiteSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode site settings: %w", err)
	}
	return &s, nil
}
