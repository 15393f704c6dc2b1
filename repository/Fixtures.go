package repository

import (
	"boothStore/models"

	"github.com/shopspring/decimal"
)

const loremShort = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
const loremLong = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris."

func defaultCustomizations() []models.CustomizationOption {
	return []models.CustomizationOption{
		{Id: "bench", Name: "Bench", Description: loremShort, AdditionalCost: decimal.Zero, ImageUrl: "/Images/Furniture/2x/Furniture option 01@2x.png"},
		{Id: "stools-table", Name: "Stools & table", Description: loremShort, AdditionalCost: decimal.Zero, ImageUrl: "/Images/Furniture/2x/Furniture option 02@2x.png"},
		{Id: "tablets", Name: "Tablets", Description: loremShort, AdditionalCost: decimal.Zero, ImageUrl: "/Images/Furniture/2x/Furniture option 03@2x.png"},
	}
}

func structure(id, size, category string, stock int, customizable bool, image string, tags ...string) models.Product {
	p := models.Product{
		Id:             id,
		Name:           "Lorem ipsum",
		Type:           models.TypeStructure,
		Size:           size,
		Category:       category,
		Description:    loremLong,
		Price:          decimal.Zero,
		PriceType:      models.PriceTypeUnit,
		StockQuantity:  stock,
		IsCustomizable: customizable,
		ImageUrl:       image,
		Status:         models.StatusAvailable,
		Tags:           tags,
	}
	if customizable {
		p.CustomizationOptions = defaultCustomizations()
	}
	return p
}

func booth(id, name, size string, stock int, prefix string, dims models.Dimensions, tags ...string) models.Product {
	return models.Product{
		Id:             id,
		Name:           name,
		Type:           models.TypeBooth,
		Size:           size,
		Category:       "Island",
		Description:    loremLong + " Duis aute irure dolor in reprehenderit.",
		Price:          decimal.Zero,
		PriceType:      models.PriceTypeBooth,
		StockQuantity:  stock,
		IsCustomizable: true,
		ImageUrl:       "/Images/Booths/" + prefix + " - 01@2x.png",
		AdditionalImages: []string{
			"/Images/Booths/" + prefix + " - 02@2x.png",
			"/Images/Booths/" + prefix + " - 03@2x.png",
			"/Images/Booths/" + prefix + " - 04@2x.png",
			"/Images/Booths/" + prefix + " - 05@2x.png",
		},
		CustomizationOptions: defaultCustomizations(),
		Status:               models.StatusAvailable,
		Tags:                 tags,
		Dimensions:           &dims,
	}
}

// FixtureProducts is the built-in catalog served when no remote source answers.
// A fresh slice is returned on every call.
func FixtureProducts() []models.Product {
	return []models.Product{
		structure("struct-001", "Medium", "Display", 5, true, "/Images/Furniture/2x/Furniture 01@2x.png", "display", "medium"),
		structure("struct-002", "Large", "Display", 3, false, "/Images/Furniture/2x/Furniture 02@2x.png", "display", "large"),
		structure("struct-003", "Medium", "Counter", 4, false, "/Images/Furniture/2x/Furniture 03@2x.png", "counter", "medium"),
		structure("struct-004", "Large", "Interactive", 2, false, "/Images/Furniture/2x/Furniture 04@2x.png", "interactive", "large"),
		structure("struct-005", "Small", "Counter", 6, true, "/Images/Furniture/2x/Furniture 05@2x.png", "counter", "small"),
		structure("struct-006", "Medium", "Display", 5, true, "/Images/Furniture/2x/Furniture 06@2x.png", "display", "medium"),
		booth("booth-island-180", "Island 180", "Large", 2, "Island180", models.Dimensions{Width: 18, Depth: 10, Height: 4}, "booth", "large", "island"),
		booth("booth-island-60", "Island 60", "Medium", 1, "Island60", models.Dimensions{Width: 6, Depth: 10, Height: 3}, "booth", "medium", "island"),
	}
}

var (
	FilterTypeOptions          = []string{"Booths", "Structures", "Furniture"}
	FilterSizeOptions          = []string{"Small", "Medium", "Large"}
	FilterFeatureOptions       = []string{"Display", "Counter", "Interactive"}
	FilterSpecificationOptions = []string{"Single-sided", "Double-sided", "Freestanding", "Wall-mounted"}
)
