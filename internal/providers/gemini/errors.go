package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"holosuite/internal/domain"
)

// notFoundPhrase is what the API says when the key cannot see the model,
// which in practice means the key is wrong or lacks access.
const notFoundPhrase = "Requested entity was not found"

// IsNotFound reports whether err is the provider's entity-not-found failure.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound || apiErr.Status == "NOT_FOUND" {
			return true
		}
	}
	return strings.Contains(err.Error(), notFoundPhrase)
}

// ProviderError converts an SDK or transport failure into a typed error that
// keeps the provider's own message. Typed errors pass through unchanged.
func ProviderError(err error) error {
	if err == nil {
		return nil
	}
	var typed *domain.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrTimeout, "The provider did not respond in time", err)
	}
	return domain.WrapError(domain.ErrProviderFailure, providerMessage(err), err)
}

func providerMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return err.Error()
}
