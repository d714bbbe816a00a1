package distributor

import (
	"strconv"
	"strings"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/shopspring/decimal"
)

// The NOD feed has no stable envelope: depending on endpoint, volume and
// gateway mood the same resource arrives as a bare array, an object
// wrapper, a result wrapper or a singleton. Everything below decodes
// from any and recognizes shapes instead of trusting a schema.

// nodProductList extracts the product records from any of the known
// envelope shapes. Unknown shapes yield an empty list.
func nodProductList(raw any) []map[string]any {
	if raw == nil {
		return nil
	}
	if arr, ok := raw.([]any); ok {
		return nodObjects(arr)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if p, ok := obj["products"]; ok {
		return nodObjectOrList(p)
	}
	if res, ok := obj["result"]; ok {
		if arr, ok := res.([]any); ok {
			return nodObjects(arr)
		}
		if inner, ok := res.(map[string]any); ok {
			if p, ok := inner["products"]; ok {
				return nodObjectOrList(p)
			}
		}
	}
	// Singleton product
	if obj["id"] != nil || obj["code"] != nil {
		return []map[string]any{obj}
	}
	return nil
}

func nodObjects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func nodObjectOrList(v any) []map[string]any {
	if arr, ok := v.([]any); ok {
		return nodObjects(arr)
	}
	if m, ok := v.(map[string]any); ok {
		return []map[string]any{m}
	}
	return nil
}

// nodFlattenCategories walks the category tree depth-first, tolerating
// children delivered as an array or as a {children: ...} object, and
// returns the nodes as a flat list.
func nodFlattenCategories(raw any) []map[string]any {
	var flat []map[string]any

	var walk func(nodes []map[string]any)
	walk = func(nodes []map[string]any) {
		for _, n := range nodes {
			flat = append(flat, n)
			if ch, ok := n["children"]; ok {
				if arr, ok := ch.([]any); ok {
					walk(nodObjects(arr))
				} else if inner, ok := ch.(map[string]any); ok {
					if nested, ok := inner["children"]; ok {
						walk(nodObjectOrList(nested))
					}
				}
			}
		}
	}

	if raw == nil {
		return nil
	}
	if arr, ok := raw.([]any); ok {
		walk(nodObjects(arr))
		return flat
	}
	if obj, ok := raw.(map[string]any); ok {
		for _, key := range []string{"product_categories", "categories", "result"} {
			if list, ok := obj[key].([]any); ok {
				walk(nodObjects(list))
				return flat
			}
		}
	}
	return flat
}

// nodString reads the first present field as a string; numbers are
// rendered without a trailing ".0"
func nodString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			if t == float64(int64(t)) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

// nodDecimal parses the first present field as a positive decimal.
// Zero, absent and unparseable values all mean "no value".
func nodDecimal(m map[string]any, keys ...string) *decimal.Decimal {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var d decimal.Decimal
		switch t := v.(type) {
		case float64:
			d = decimal.NewFromFloat(t)
		case string:
			parsed, err := decimal.NewFromString(strings.TrimSpace(t))
			if err != nil {
				continue
			}
			d = parsed
		default:
			continue
		}
		if d.IsPositive() {
			return &d
		}
	}
	return nil
}

// nodInt parses the first present field as an int
func nodInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// nodPrice applies the price precedence of the feed: RON promo, then RON
// list, then feed-currency promo, then feed-currency list
func nodPrice(m map[string]any) *decimal.Decimal {
	return nodDecimal(m, "ron_promo_price", "ron_price", "promo_price", "price")
}

// nodImages collects image URLs from the legacy CSV string field and the
// pictures array/object field, deduplicated in order
func nodImages(m map[string]any) []string {
	var images []string
	seen := make(map[string]bool)
	add := func(url string) {
		url = strings.TrimSpace(url)
		if url != "" && url != "nan" && !seen[url] {
			seen[url] = true
			images = append(images, url)
		}
	}

	if s, ok := m["images"].(string); ok && s != "nan" {
		for _, u := range strings.Split(s, ",") {
			add(u)
		}
	}

	pickURL := func(pic map[string]any) {
		if u := nodString(pic, "url_overlay_picture"); u != "" {
			add(u)
		} else if u := nodString(pic, "url_thumbnail_picture"); u != "" {
			add(u)
		}
	}
	if pics, ok := m["pictures"]; ok {
		if arr, ok := pics.([]any); ok {
			for _, p := range nodObjects(arr) {
				pickURL(p)
			}
		} else if obj, ok := pics.(map[string]any); ok {
			if inner, ok := obj["picture"]; ok {
				for _, p := range nodObjectOrList(inner) {
					pickURL(p)
				}
			}
		}
	}
	return images
}

// nodNormalizeProduct maps one raw product record to the normalized model
func nodNormalizeProduct(m map[string]any) provider.NormalizedProduct {
	price := nodPrice(m)

	var stockQty *int
	if n, ok := nodInt(m, "stock_value", "stock"); ok {
		stockQty = &n
	}
	stock := 0
	if stockQty != nil {
		stock = *stockQty
	}

	id := nodString(m, "id")
	name := nodString(m, "title", "name")
	if name == "" {
		name = "NOD-" + id
	}

	attrs := make(map[string]string)
	for attr, keys := range map[string][]string{
		"ean":           {"ean"},
		"code":          {"code"},
		"warranty_type": {"warranty_type"},
		"defect":        {"defect"},
	} {
		if v := nodString(m, keys...); v != "" {
			attrs[attr] = v
		}
	}
	if n, ok := nodInt(m, "warranty"); ok && n > 0 {
		attrs["warranty_months"] = strconv.Itoa(n)
	}
	if n, ok := nodInt(m, "min_quantity"); ok && n > 0 {
		attrs["min_quantity"] = strconv.Itoa(n)
	}
	if n, ok := nodInt(m, "vat_percent"); ok && n > 0 {
		attrs["vat_percent"] = strconv.Itoa(n)
	}
	if d := nodDecimal(m, "catalog_price"); d != nil {
		attrs["catalog_price_eur"] = d.String()
	}
	if d := nodDecimal(m, "ron_catalog_price"); d != nil {
		attrs["catalog_price_ron"] = d.String()
	}
	if d := nodDecimal(m, "price"); d != nil {
		attrs["price_original"] = d.String()
	}
	if v := nodString(m, "currency"); v != "" {
		attrs["original_currency"] = v
	}
	if n, ok := nodInt(m, "has_resealed"); ok && n > 0 {
		attrs["has_resealed"] = "1"
	}

	return provider.NormalizedProduct{
		ExternalID:         id,
		SKU:                nodString(m, "code", "original_code"),
		Name:               name,
		Description:        nodString(m, "description"),
		Price:              price,
		Currency:           "RON",
		StockQty:           stockQty,
		InStock:            stock > 0,
		Images:             nodImages(m),
		BrandExternalID:    nodString(m, "manufacturer_id"),
		CategoryExternalID: nodString(m, "product_category_id"),
		Attributes:         attrs,
		RawPayload:         m,
	}
}
