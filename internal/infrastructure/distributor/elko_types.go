package distributor

// elkoProduct is one record of the Catalogs/Products listing
type elkoProduct struct {
	Code         string   `json:"code"`
	ElkoCode     string   `json:"elkoCode"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	VendorCode   string   `json:"vendorCode"`
	VendorName   string   `json:"vendorName"`
	CategoryCode string   `json:"categoryCode"`
	CategoryName string   `json:"categoryName"`
	EAN          string   `json:"ean"`
	Price        float64  `json:"price"`
	Stock        int      `json:"stock"`
	Available    bool     `json:"available"`
	Weight       float64  `json:"weight"`
	Images       []string `json:"images"`
}

func (p elkoProduct) externalID() string {
	if p.Code != "" {
		return p.Code
	}
	return p.ElkoCode
}

// elkoAvailability is the per-product price and stock snapshot
type elkoAvailability struct {
	Price     *float64 `json:"price"`
	Stock     *int     `json:"stock"`
	Available *bool    `json:"available"`
}

// elkoCategory is one record of the Catalogs/Categories listing
type elkoCategory struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ParentCode string `json:"parentCode"`
}

// elkoVendor is one record of the Catalogs/Vendors listing
type elkoVendor struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
