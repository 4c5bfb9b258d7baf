package model

// Product is one apparel item from the catalog.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Price          float64  `json:"price"`
	Fabric         string   `json:"fabric,omitempty"`
	Fit            string   `json:"fit,omitempty"`
	ColorOrPrint   string   `json:"color_or_print,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	SleeveLength   string   `json:"sleeve_length,omitempty"`
	Neckline       string   `json:"neckline,omitempty"`
	Length         string   `json:"length,omitempty"`
	PantType       string   `json:"pant_type,omitempty"`
	AvailableSizes []string `json:"available_sizes,omitempty"`
	Style          []string `json:"style,omitempty"`
	Occasion       []string `json:"occasion,omitempty"`
}

// AttributeQuery maps an attribute name to one or more wanted values.
type AttributeQuery map[string][]string

// ScoredProduct pairs a product with its match score in [0,1].
type ScoredProduct struct {
	Product    Product `json:"product"`
	MatchScore float64 `json:"match_score"`
}
