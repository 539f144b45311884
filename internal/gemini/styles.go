package gemini

// Style is a named preset steering the model toward a design aesthetic.
type Style struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// InteriorStyles is the canonical preset table. Unknown style ids fall
// back to the first entry.
var InteriorStyles = []Style{
	{ID: "modern", Name: "Modern Minimalist", Prompt: "modern minimalist interior, clean lines, neutral colors, high-end furniture, spacious"},
	{ID: "scandinavian", Name: "Scandinavian", Prompt: "scandinavian style, light wood, cozy textures, functional, bright and airy"},
	{ID: "industrial", Name: "Industrial", Prompt: "industrial loft style, exposed brick, metal accents, dark wood, raw textures"},
	{ID: "luxury", Name: "Luxury", Prompt: "high-end luxury interior, gold accents, marble surfaces, velvet textures, opulent lighting"},
	{ID: "boho", Name: "Bohemian", Prompt: "bohemian style, eclectic patterns, plants, warm colors, relaxed and artistic"},
	{ID: "midcentury", Name: "Mid-Century Modern", Prompt: "mid-century modern, organic shapes, tapered legs, wood paneling, retro-modern"},
	{ID: "japandi", Name: "Japandi", Prompt: "japandi style, fusion of japanese and scandinavian, zen, natural materials, minimalist"},
}

func StyleByID(id string) Style {
	for _, s := range InteriorStyles {
		if s.ID == id {
			return s
		}
	}

	return InteriorStyles[0]
}
