package catalog

import "holosuite/internal/domain"

var experiences = []domain.Experience{
	{
		ID:          "1",
		Title:       "Mars Colony Sunrise",
		Description: "Experience the breathtaking dawn over humanity's first settlement on Mars. Watch as the red planet awakens.",
		Thumbnail:   "https://images.unsplash.com/photo-1614730321146-b6fa6a46bcb4?w=800&auto=format&fit=crop",
		Category:    "Space",
		Duration:    "5 min",
		Featured:    true,
	},
	{
		ID:          "2",
		Title:       "Saturn Ring Fly-Through",
		Description: "Navigate through the majestic rings of Saturn in stunning detail.",
		Thumbnail:   "https://images.unsplash.com/photo-1614732414444-096e5f1122d5?w=800&auto=format&fit=crop",
		Category:    "Space",
		Duration:    "4 min",
	},
	{
		ID:          "3",
		Title:       "International Space Station",
		Description: "Float through the ISS and witness Earth from orbit.",
		Thumbnail:   "https://images.unsplash.com/photo-1446776653964-20c1d3a81b06?w=800&auto=format&fit=crop",
		Category:    "Space",
		Duration:    "6 min",
	},
	{
		ID:          "4",
		Title:       "Black Hole Encounter",
		Description: "Safely observe a black hole up close and witness its gravitational lensing.",
		Thumbnail:   "https://images.unsplash.com/photo-1462331940025-496dfbfc7564?w=800&auto=format&fit=crop",
		Category:    "Space",
		Duration:    "8 min",
	},
	{
		ID:          "5",
		Title:       "Amazon Rainforest Canopy",
		Description: "Glide through the lush canopy of the Amazon at dawn.",
		Thumbnail:   "https://images.unsplash.com/photo-1516026672322-bc52d61a55d5?w=800&auto=format&fit=crop",
		Category:    "Nature",
		Duration:    "7 min",
	},
	{
		ID:          "6",
		Title:       "Northern Lights in Iceland",
		Description: "Witness the aurora borealis dance across the Arctic sky.",
		Thumbnail:   "https://images.unsplash.com/photo-1483347756197-71ef80e95f73?w=800&auto=format&fit=crop",
		Category:    "Nature",
		Duration:    "5 min",
	},
	{
		ID:          "7",
		Title:       "Great Barrier Reef Dive",
		Description: "Swim alongside vibrant coral and exotic marine life.",
		Thumbnail:   "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=800&auto=format&fit=crop",
		Category:    "Nature",
		Duration:    "10 min",
	},
	{
		ID:          "8",
		Title:       "Ancient Rome Restored",
		Description: "Walk through the Roman Forum at the height of the empire.",
		Thumbnail:   "https://images.unsplash.com/photo-1552832230-c0197dd311b5?w=800&auto=format&fit=crop",
		Category:    "History",
		Duration:    "12 min",
	},
	{
		ID:          "9",
		Title:       "Egyptian Pyramids Construction",
		Description: "Witness the building of the Great Pyramid of Giza.",
		Thumbnail:   "https://images.unsplash.com/photo-1572252009286-268acec5ca0a?w=800&auto=format&fit=crop",
		Category:    "History",
		Duration:    "9 min",
	},
	{
		ID:          "10",
		Title:       "Viking Longship Voyage",
		Description: "Join a Viking crew on their journey across the North Atlantic.",
		Thumbnail:   "https://images.unsplash.com/photo-1601980497119-323ae933d771?w=800&auto=format&fit=crop",
		Category:    "History",
		Duration:    "11 min",
	},
	{
		ID:          "11",
		Title:       "Dragon Mountain Peak",
		Description: "Soar with dragons over a mythical mountain kingdom.",
		Thumbnail:   "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?w=800&auto=format&fit=crop",
		Category:    "Fantasy",
		Duration:    "6 min",
	},
	{
		ID:          "12",
		Title:       "Underwater Crystal City",
		Description: "Explore a mystical city beneath the waves.",
		Thumbnail:   "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=800&auto=format&fit=crop",
		Category:    "Fantasy",
		Duration:    "8 min",
	},
	{
		ID:          "13",
		Title:       "Enchanted Forest Night",
		Description: "Wander through a magical forest illuminated by bioluminescent flora.",
		Thumbnail:   "https://images.unsplash.com/photo-1511497584788-876760111969?w=800&auto=format&fit=crop",
		Category:    "Fantasy",
		Duration:    "7 min",
	},
	{
		ID:          "14",
		Title:       "Tokyo Neon Nights",
		Description: "Experience the electric energy of Tokyo's neon-lit streets.",
		Thumbnail:   "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?w=800&auto=format&fit=crop",
		Category:    "Urban",
		Duration:    "5 min",
	},
	{
		ID:          "15",
		Title:       "New York Skyline Flight",
		Description: "Fly through the Manhattan skyline at golden hour.",
		Thumbnail:   "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?w=800&auto=format&fit=crop",
		Category:    "Urban",
		Duration:    "4 min",
	},
}

// rowTitles are the headings used when every category is shown at once.
var rowTitles = []struct {
	Category string
	Title    string
}{
	{"Space", "Space Adventures"},
	{"Nature", "Natural Wonders"},
	{"History", "Historical Journeys"},
	{"Fantasy", "Fantasy Realms"},
	{"Urban", "Urban Escapes"},
}
