package gemini

import "google.golang.org/genai"

var nullable = true

func field(t genai.Type, desc string) *genai.Schema {
	return &genai.Schema{Type: t, Description: desc}
}

// comparisonSchema constrains strict-mode output to the result envelope.
var comparisonSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"status": {Type: genai.TypeString, Enum: []string{"ok", "no_results"}},
		"results": {
			Type:        genai.TypeArray,
			Description: "3 to 4 stores sorted ascending by total_price",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"store_name":  field(genai.TypeString, "Store display name"),
					"address":     field(genai.TypeString, "Store street address"),
					"distance_km": field(genai.TypeNumber, "Distance from the shopper address in km"),
					"currency":    field(genai.TypeString, "Currency symbol"),
					"total_price": field(genai.TypeNumber, "Sum of unit_price * quantity"),
					"basket": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"name":     field(genai.TypeString, "Item as requested"),
								"brand":    field(genai.TypeString, "Brand, never empty"),
								"quantity": field(genai.TypeNumber, "Requested quantity"),
								"unit_price": {
									Type:        genai.TypeNumber,
									Description: "Verified price per unit, null when unknown",
									Nullable:    &nullable,
								},
								"line_total":       field(genai.TypeNumber, "unit_price * quantity"),
								"product_url":      field(genai.TypeString, "Product page URL"),
								"source_domain":    field(genai.TypeString, "Domain the price came from"),
								"notes":            field(genai.TypeString, "Short remarks"),
								"size":             field(genai.TypeString, "Package size"),
								"pack_qty":         field(genai.TypeNumber, "Units per pack"),
								"unit":             field(genai.TypeString, "Unit of measure"),
								"ppu":              field(genai.TypeNumber, "Price per unit of measure"),
								"match_confidence": field(genai.TypeNumber, "0..1 match confidence"),
								"substitution":     field(genai.TypeBoolean, "Product substitutes the requested item"),
								"observed_at":      field(genai.TypeString, "RFC 3339 time the price was seen"),
								"in_stock":         field(genai.TypeBoolean, "Availability"),
							},
							Required: []string{"name", "brand", "quantity", "unit_price", "product_url"},
						},
					},
				},
				Required: []string{"store_name", "basket"},
			},
		},
	},
	Required: []string{"status", "results"},
}
