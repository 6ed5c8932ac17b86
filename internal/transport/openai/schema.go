package openai

import "github.com/sashabaranov/go-openai/jsonschema"

// ToolName is the function the model must call in strict mode.
const ToolName = "submit_price_comparison"

func str(desc string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: desc}
}

func num(desc string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Number, Description: desc}
}

// nullableNum is a number the model may send as null instead of guessing.
func nullableNum(desc string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Number, Description: desc, Nullable: true}
}

func boolean(desc string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Boolean, Description: desc}
}

// comparisonSchema is the fixed parameter schema of the strict tool call.
var comparisonSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"status": {Type: jsonschema.String, Enum: []string{"ok", "no_results"}},
		"results": {
			Type:        jsonschema.Array,
			Description: "3 to 4 stores sorted ascending by total_price",
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"store_name":  str("Store display name"),
					"address":     str("Store street address"),
					"distance_km": num("Distance from the shopper address in km"),
					"currency":    str("Currency symbol"),
					"total_price": num("Sum of unit_price * quantity"),
					"basket": {
						Type: jsonschema.Array,
						Items: &jsonschema.Definition{
							Type: jsonschema.Object,
							Properties: map[string]jsonschema.Definition{
								"name":             str("Item as requested"),
								"brand":            str("Brand, never empty"),
								"quantity":         num("Requested quantity"),
								"unit_price":       nullableNum("Verified price per unit, null when unknown"),
								"line_total":       nullableNum("unit_price * quantity"),
								"product_url":      str("Product page URL"),
								"source_domain":    str("Domain the price came from"),
								"notes":            str("Short remarks"),
								"size":             str("Package size, e.g. 1.5L"),
								"pack_qty":         num("Units per pack"),
								"unit":             str("Unit of measure"),
								"ppu":              num("Price per unit of measure"),
								"match_confidence": num("0..1 confidence the product matches the item"),
								"substitution":     boolean("Whether the product substitutes the requested item"),
								"observed_at":      str("RFC 3339 time the price was seen"),
								"in_stock":         boolean("Availability"),
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
