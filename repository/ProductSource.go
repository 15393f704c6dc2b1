package repository

import (
	"context"

	"boothStore/models"
)

// ProductSource is a remote catalog. GetSiteSettings returns nil settings
// when the source holds no settings document.
type ProductSource interface {
	Name() string
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetSiteSettings(ctx context.Context) (*models.SiteSettings, error)
}
