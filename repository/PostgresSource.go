package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"boothStore/models"

	"go.uber.org/zap"
)

// ProductsSchema creates the tables read by PostgresSource.
const ProductsSchema = `
CREATE TABLE IF NOT EXISTS Products (
	Id                   TEXT PRIMARY KEY,
	Name                 TEXT NOT NULL,
	Type                 TEXT NOT NULL CHECK (Type IN ('booth', 'structure', 'furniture')),
	Size                 TEXT CHECK (Size IN ('Small', 'Medium', 'Large')),
	Category             TEXT,
	Description          TEXT,
	Price                NUMERIC(12, 2) NOT NULL DEFAULT 0 CHECK (Price >= 0),
	PriceType            TEXT NOT NULL DEFAULT 'unit' CHECK (PriceType IN ('unit', 'booth')),
	StockQuantity        INTEGER NOT NULL DEFAULT 0 CHECK (StockQuantity >= 0),
	IsCustomizable       BOOLEAN NOT NULL DEFAULT FALSE,
	ImageUrl             TEXT,
	AdditionalImages     JSONB,
	CustomizationOptions JSONB,
	Status               TEXT NOT NULL DEFAULT 'available' CHECK (Status IN ('available', 'booked', 'unavailable')),
	Tags                 JSONB,
	Features             JSONB,
	CreatedAt            TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS SiteSettings (
	Id                 TEXT PRIMARY KEY,
	SiteName           TEXT NOT NULL,
	NavBoothsLabel     TEXT,
	NavStructuresLabel TEXT,
	NavFurnitureLabel  TEXT
);`

type PostgresSource struct {
	db  *sql.DB
	log *zap.Logger
}

func NewPostgresSource(conn *sql.DB, logger *zap.Logger) (*PostgresSource, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &PostgresSource{
		db:  conn,
		log: logger,
	}, nil
}

func (p *PostgresSource) Name() string {
	return "postgres"
}

// Migrate creates the catalog tables when missing.
func (p *PostgresSource) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, ProductsSchema)
	return err
}

func (p *PostgresSource) GetProducts(ctx context.Context) (prods []models.Product, err error) {
	rows, e := p.db.QueryContext(ctx, `SELECT Id, Name, Type, Size, Category, Description, Price, PriceType,
		StockQuantity, IsCustomizable, ImageUrl, AdditionalImages, CustomizationOptions, Status, Tags, Features
		FROM Products ORDER BY CreatedAt ASC`)
	if e != nil {
		p.log.Error("GetProducts[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()

	for rows.Next() {
		var row models.ProductRow
		err = rows.Scan(&row.Id, &row.Name, &row.Type, &row.Size, &row.Category, &row.Description,
			&row.Price, &row.PriceType, &row.StockQuantity, &row.IsCustomizable, &row.ImageUrl,
			&row.AdditionalImages, &row.CustomizationOptions, &row.Status, &row.Tags, &row.Features)
		if err != nil {
			p.log.Error("GetProducts[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		prod, e := productFromRow(row)
		if e != nil {
			p.log.Warn("GetProducts: skipping row", zap.String("id", row.Id), zap.Error(e))
			continue
		}
		prods = append(prods, prod)
	}
	if e := rows.Err(); e != nil {
		p.log.Error("GetProducts[3]", zap.Error(e))
		err = models.ErrServerError
	}
	return
}

func productFromRow(row models.ProductRow) (p models.Product, err error) {
	p = models.Product{
		Id:             row.Id,
		Name:           row.Name,
		Type:           row.Type,
		Size:           deref(row.Size),
		Category:       deref(row.Category),
		Description:    deref(row.Description),
		Price:          row.Price,
		PriceType:      row.PriceType,
		StockQuantity:  row.StockQuantity,
		IsCustomizable: row.IsCustomizable,
		ImageUrl:       deref(row.ImageUrl),
		Status:         row.Status,
	}
	if err = unmarshalOptional(row.AdditionalImages, &p.AdditionalImages); err != nil {
		return
	}
	if err = unmarshalOptional(row.CustomizationOptions, &p.CustomizationOptions); err != nil {
		return
	}
	if err = unmarshalOptional(row.Tags, &p.Tags); err != nil {
		return
	}
	err = unmarshalOptional(row.Features, &p.Features)
	return
}

func unmarshalOptional(data []byte, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (p *PostgresSource) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var s models.SiteSettings
	var boothsLabel, structuresLabel, furnitureLabel sql.NullString
	row := p.db.QueryRowContext(ctx, "SELECT SiteName, NavBoothsLabel, NavStructuresLabel, NavFurnitureLabel FROM SiteSettings WHERE Id = $1", "siteSettings")
	err := row.Scan(&s.SiteName, &boothsLabel, &structuresLabel, &furnitureLabel)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		p.log.Error("GetSiteSettings", zap.Error(err))
		return nil, models.ErrServerError
	}
	s.NavBoothsLabel = boothsLabel.String
	s.NavStructuresLabel = structuresLabel.String
	s.NavFurnitureLabel = furnitureLabel.String
	return &s, nil
}
