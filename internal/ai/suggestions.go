package ai

// PromptSuggestion is a curated starting point for image generation
type PromptSuggestion struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

// PromptSuggestions is the fixed catalog served to clients
var PromptSuggestions = []PromptSuggestion{
	{
		ID:       "fantasy-landscape",
		Title:    "Fantasy Landscape",
		Prompt:   "A mystical fantasy landscape with floating islands, glowing crystals, and ethereal waterfalls under a starry sky",
		Category: "Fantasy",
		Icon:     "🏔️",
	},
	{
		ID:       "cyberpunk-city",
		Title:    "Cyberpunk City",
		Prompt:   "A neon-lit cyberpunk cityscape at night with flying cars, holographic advertisements, and rain-soaked streets",
		Category: "Sci-Fi",
		Icon:     "🌃",
	},
	{
		ID:       "cute-animal",
		Title:    "Cute Animal",
		Prompt:   "An adorable baby dragon with iridescent scales, sitting in a field of colorful flowers, digital art style",
		Category: "Animals",
		Icon:     "🐉",
	},
	{
		ID:       "space-exploration",
		Title:    "Space Scene",
		Prompt:   "An astronaut floating in space near a colorful nebula with distant galaxies and bright stars in the background",
		Category: "Space",
		Icon:     "🚀",
	},
	{
		ID:       "abstract-art",
		Title:    "Abstract Art",
		Prompt:   "A vibrant abstract composition with flowing geometric shapes, gradient colors, and dynamic movement",
		Category: "Abstract",
		Icon:     "🎨",
	},
	{
		ID:       "nature-scene",
		Title:    "Nature Scene",
		Prompt:   "A serene forest clearing with sunbeams filtering through ancient trees, moss-covered rocks, and wildflowers",
		Category: "Nature",
		Icon:     "🌲",
	},
	{
		ID:       "portrait-art",
		Title:    "Portrait Art",
		Prompt:   "A stylized portrait of a person with flowing hair made of galaxies and stars, cosmic art style",
		Category: "Portrait",
		Icon:     "👤",
	},
	{
		ID:       "steampunk",
		Title:    "Steampunk",
		Prompt:   "A steampunk airship with brass gears, copper pipes, and steam engines flying over a Victorian city",
		Category: "Steampunk",
		Icon:     "⚙️",
	},
	{
		ID:       "underwater",
		Title:    "Underwater World",
		Prompt:   "An underwater coral reef city with bioluminescent creatures, crystal formations, and ancient ruins",
		Category: "Underwater",
		Icon:     "🐠",
	},
	{
		ID:       "minimalist",
		Title:    "Minimalist",
		Prompt:   "A minimalist composition with simple geometric shapes, clean lines, and a calming color palette",
		Category: "Minimalist",
		Icon:     "◻️",
	},
}
