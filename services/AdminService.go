package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"boothStore/entities"
	"boothStore/models"
	"boothStore/repository"
	"boothStore/schema"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService keeps an editable copy of the catalog and the congress list in
// memory. Changes are lost on restart and are not visible in the public catalog;
// Export is the way to take them out.
type AdminService struct {
	mu         sync.RWMutex
	products   []models.Product
	congresses []models.Congress
	log        *zap.Logger
	now        func() time.Time
}

func NewAdminService(logger *zap.Logger) *AdminService {
	return &AdminService{
		products: repository.FixtureProducts(),
		log:      logger,
		now:      time.Now,
	}
}

func (as *AdminService) ListProducts() []models.Product {
	as.mu.RLock()
	defer as.mu.RUnlock()
	res := make([]models.Product, len(as.products))
	copy(res, as.products)
	return res
}

func splitList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}

// checkProductEnum records a field error when value is not one of the options
// the product content type declares for field.
func checkProductEnum(verr *models.ValidationError, field, value string) {
	f, ok := schema.Product.Field(field)
	if !ok || f.Allows(value) {
		return
	}
	verr.Add(field, fmt.Sprintf("%s must be one of %s", f.Title, strings.Join(f.Options, ", ")))
}

func (as *AdminService) CreateProduct(form entities.ProductForm) (p models.Product, err error) {
	if form.Type == "" {
		form.Type = models.TypeBooth
	}
	if form.Status == "" {
		form.Status = models.StatusAvailable
	}

	verr := &models.ValidationError{}
	if strings.TrimSpace(form.Name) == "" {
		verr.Add("name", "Name is required")
	}
	checkProductEnum(verr, "type", form.Type)
	checkProductEnum(verr, "size", form.Size)
	checkProductEnum(verr, "category", form.Category)
	checkProductEnum(verr, "status", form.Status)
	if form.Price.IsNegative() {
		verr.Add("price", "Price cannot be negative")
	}
	if form.StockQuantity < 0 {
		verr.Add("stockQuantity", "Stock quantity cannot be negative")
	}
	if form.Width < 0 || form.Depth < 0 || form.Height < 0 {
		verr.Add("dimensions", "Dimensions cannot be negative")
	}
	if err = verr.Err(); err != nil {
		return
	}

	p = models.Product{
		Id:             form.Type + "-" + uuid.NewString(),
		Name:           strings.TrimSpace(form.Name),
		Type:           form.Type,
		Size:           form.Size,
		Category:       form.Category,
		Description:    form.Description,
		Price:          form.Price,
		PriceType:      models.PriceTypeUnit,
		StockQuantity:  form.StockQuantity,
		IsCustomizable: form.IsCustomizable,
		Status:         form.Status,
		Tags:           splitList(form.Tags),
		Features:       splitList(form.Features),
	}
	if p.Type == models.TypeBooth {
		p.PriceType = models.PriceTypeBooth
	}
	if form.Width > 0 || form.Depth > 0 || form.Height > 0 {
		p.Dimensions = &models.Dimensions{Width: form.Width, Depth: form.Depth, Height: form.Height}
	}

	as.mu.Lock()
	as.products = append(as.products, p)
	as.mu.Unlock()
	as.log.Info("admin product added", zap.String("id", p.Id), zap.String("name", p.Name))
	return
}

func (as *AdminService) DeleteProduct(id string) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	for i, p := range as.products {
		if p.Id == id {
			as.products = append(as.products[:i], as.products[i+1:]...)
			as.log.Info("admin product deleted", zap.String("id", id))
			return nil
		}
	}
	return models.ErrNotFoundError
}

func (as *AdminService) ListCongresses() []models.Congress {
	as.mu.RLock()
	defer as.mu.RUnlock()
	res := make([]models.Congress, len(as.congresses))
	copy(res, as.congresses)
	return res
}

func (as *AdminService) GetCongress(id string) (models.Congress, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	for _, c := range as.congresses {
		if c.Id == id {
			return c, true
		}
	}
	return models.Congress{}, false
}

// CreateCongress validates and stores a congress. Date ranges may not overlap
// an existing congress, bounds included.
func (as *AdminService) CreateCongress(form entities.CongressForm) (c models.Congress, err error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	verr := &models.ValidationError{}
	if strings.TrimSpace(form.Name) == "" {
		verr.Add("name", "Show name is required")
	}
	if strings.TrimSpace(form.Location) == "" {
		verr.Add("location", "Location is required")
	}
	if strings.TrimSpace(form.Venue) == "" {
		verr.Add("venue", "Venue is required")
	}
	start, okStart := parseDate(form.StartDate)
	if !okStart {
		verr.Add("startDate", "Start date is required")
	}
	end, okEnd := parseDate(form.EndDate)
	if !okEnd {
		verr.Add("endDate", "End date is required")
	}
	if okStart && okEnd {
		if start.After(end) {
			verr.Set("endDate", "End date must be after start date")
		}
		for _, other := range as.congresses {
			if !start.After(other.EndDate) && !end.Before(other.StartDate) {
				verr.Set("startDate", "These dates conflict with an existing congress booking")
				break
			}
		}
	}
	if form.TotalCost.IsNegative() {
		verr.Add("totalCost", "Total cost cannot be negative")
	}
	if err = verr.Err(); err != nil {
		return
	}

	c = models.Congress{
		Id:        "congress-" + uuid.NewString(),
		Name:      strings.TrimSpace(form.Name),
		Location:  strings.TrimSpace(form.Location),
		Venue:     strings.TrimSpace(form.Venue),
		StartDate: start,
		EndDate:   end,
		TotalCost: form.TotalCost,
		Notes:     form.Notes,
	}
	as.congresses = append(as.congresses, c)
	as.log.Info("admin congress added", zap.String("id", c.Id), zap.String("name", c.Name))
	return
}

func (as *AdminService) DeleteCongress(id string) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	for i, c := range as.congresses {
		if c.Id == id {
			as.congresses = append(as.congresses[:i], as.congresses[i+1:]...)
			as.log.Info("admin congress deleted", zap.String("id", id))
			return nil
		}
	}
	return models.ErrNotFoundError
}

func (as *AdminService) Export() entities.AdminExport {
	return entities.AdminExport{
		Products:   as.ListProducts(),
		Congresses: as.ListCongresses(),
		ExportedAt: as.now().UTC(),
	}
}

// ExportProductsCSV renders the admin product list with list fields joined by
// commas, the same way the product form accepts them.
func (as *AdminService) ExportProductsCSV() ([]byte, error) {
	prods := as.ListProducts()
	rows := make([]entities.ProductCSVRow, 0, len(prods))
	for _, p := range prods {
		rows = append(rows, entities.ProductCSVRow{
			Id:             p.Id,
			Name:           p.Name,
			Type:           p.Type,
			Category:       p.Category,
			Size:           p.Size,
			Price:          p.Price.StringFixed(2),
			PriceType:      p.PriceType,
			StockQuantity:  p.StockQuantity,
			IsCustomizable: p.IsCustomizable,
			Status:         p.Status,
			Tags:           strings.Join(p.Tags, ","),
			Features:       strings.Join(p.Features, ","),
		})
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		as.log.Error("ExportProductsCSV", zap.Error(err))
		return nil, models.ErrServerError
	}
	return data, nil
}
