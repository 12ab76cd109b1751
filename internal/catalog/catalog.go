package catalog

import (
	"thulasibloom/internal/models"
)

// Products returns the static product definitions for the store. These are
// seeded into the product table at startup; the catalog itself is the source
// of truth for names, ingredients and pricing tiers.
func Products() []models.Product {
	healthmix := models.Product{
		ID:   "healthmix",
		Name: "Health Mix",
		Description: "Complete nutrition blend with 24 premium ingredients " +
			"for overall wellness and energy",
		Ingredients: "Wheat, Ragi, Badham, Pearl Millet, Soya Beans, Maize, " +
			"White Corn, Chick Pea, Black Chick Pea, Jawar, Black Rice, " +
			"Brown Rice, Ground Nuts, Bengal Gram, Red Rice, Barley Rice, " +
			"Green Gram, Horse Gram, Cashew Nuts, Urad Dal, " +
			"Panicum Sumatrense, Cardamom, Meethi Seeds, Rajima",
		Benefits: "Rich in protein and fiber; Boosts energy levels; " +
			"Supports digestive health; Contains essential vitamins and minerals",
		Image: "/images/products/healthmix.jpeg",
		Badge: "Best Seller",
	}
	_ = healthmix.SetPrices(models.PriceList{"250g": 110, "500g": 220})

	millet := models.Product{
		ID:          "millet-healthmix",
		Name:        "Millet Health Mix",
		Description: "Pure millet blend for enhanced nutrition and gluten-free wellness",
		Ingredients: "Foxtail Millet, Little Millet, Kodo Millet, Barnyard Millet, " +
			"Pearl Millet, Finger Millet, Proso Millet, White Corn",
		Benefits: "Gluten-free nutrition; High in antioxidants; " +
			"Supports heart health; Rich in minerals like iron and magnesium",
		Image: "/images/products/millet-healthmix.jpeg",
		Badge: "Premium",
	}
	_ = millet.SetPrices(models.PriceList{"250g": 130, "500g": 250})

	womens := models.Product{
		ID:   "womens-healthmix",
		Name: "Women's Health Mix",
		Description: "Specially formulated blend to support women's nutritional " +
			"needs and wellness",
		Ingredients: "Coming Soon - Specially curated ingredients for women's health",
		Benefits: "Supports women's health; Rich in iron and calcium; " +
			"Hormonal balance support; Energy and vitality boost",
		Image: "/images/products/womens-healthmix.jpeg",
		Badge: "Coming Soon",
	}
	// No pricing yet: notify-only product.

	return []models.Product{healthmix, millet, womens}
}

// Lookup returns the catalog product with the given id, or nil.
func Lookup(id string) *models.Product {
	for _, p := range Products() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
