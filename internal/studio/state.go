package studio

import (
	"time"

	"holosuite/internal/domain"
)

// Prompts keeps the text last submitted for each step.
type Prompts struct {
	Generate string `json:"generate"`
	Edit     string `json:"edit"`
	Animate  string `json:"animate"`
}

// State is everything the creation screen renders for one session.
// OriginalImage is only replaced by upload, generation or start-over; edits
// only ever replace CurrentImage.
type State struct {
	OriginalImage       *domain.ImageData `json:"originalImage,omitempty"`
	CurrentImage        *domain.ImageData `json:"currentImage,omitempty"`
	VideoResult         *domain.ImageData `json:"videoResult,omitempty"`
	Prompts             Prompts           `json:"prompts"`
	IsLoading           bool              `json:"isLoading"`
	LoadingMessage      string            `json:"loadingMessage,omitempty"`
	Error               string            `json:"error,omitempty"`
	CredentialReady     bool              `json:"credentialReady"`
	CredentialModalOpen bool              `json:"credentialModalOpen"`
	UploadedFileName    string            `json:"uploadedFileName,omitempty"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}
