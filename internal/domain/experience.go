package domain

// Experience is one entry of the static gallery catalog.
type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	Featured    bool   `json:"featured,omitempty"`
}
