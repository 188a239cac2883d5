// Package studio drives the create, edit and animate flow for a session.
package studio

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"holosuite/internal/domain"
	"holosuite/internal/imagecodec"
	"holosuite/internal/infra"
)

const invalidCredentialMessage = "Your API key is invalid or was not found. Please select a valid key."

// errAbort stops an operation before any provider call without reporting an
// error to the user.
var errAbort = errors.New("studio: operation aborted")

// ImageGateway creates and edits still images.
type ImageGateway interface {
	Generate(ctx context.Context, prompt string) (domain.ImageData, error)
	Edit(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error)
}

// VideoGateway animates a still image.
type VideoGateway interface {
	Generate(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error)
}

const defaultLockTTL = 15 * time.Minute

// Options configures a Controller. LockTTL caps how long a session lock is
// held and must outlast the slowest operation.
type Options struct {
	MessageInterval time.Duration
	UploadMaxBytes  int64
	LockTTL         time.Duration
	Logger          *infra.Logger
}

// Controller applies user actions to session state. At most one provider
// operation runs per session across every process sharing the store; any
// other action during it fails with domain.ErrBusy.
type Controller struct {
	store           Store
	images          ImageGateway
	videos          VideoGateway
	messageInterval time.Duration
	uploadMaxBytes  int64
	lockTTL         time.Duration
	logger          *infra.Logger
}

func NewController(store Store, images ImageGateway, videos VideoGateway, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = infra.NopLogger()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	return &Controller{
		store:           store,
		images:          images,
		videos:          videos,
		messageInterval: opts.MessageInterval,
		uploadMaxBytes:  opts.UploadMaxBytes,
		lockTTL:         opts.LockTTL,
		logger:          opts.Logger,
	}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the session state; unknown sessions start empty.
func (c *Controller) Get(ctx context.Context, id string) (State, error) {
	return c.load(ctx, id)
}

// Upload decodes a local file and makes it both the original and the current
// image. A file that cannot be decoded only sets the error.
func (c *Controller) Upload(ctx context.Context, id string, r io.Reader, contentType, fileName string) (State, error) {
	return c.mutate(ctx, id, func(s *State) {
		img, err := imagecodec.Read(r, contentType, c.uploadMaxBytes)
		if err != nil {
			s.Error = domain.Message(err)
			return
		}
		s.OriginalImage = &img
		s.CurrentImage = &img
		s.VideoResult = nil
		s.Error = ""
		s.UploadedFileName = fileName
	})
}

// Generate creates a new starting image from prompt.
func (c *Controller) Generate(ctx context.Context, id, prompt string) (State, error) {
	return c.run(ctx, id, operation{
		name:     "generate",
		messages: []string{generatingMessage},
		prepare: func(s *State) error {
			s.Prompts.Generate = prompt
			if strings.TrimSpace(prompt) == "" {
				return domain.NewError(domain.ErrInvalidInput, "Please enter a prompt to generate an image.")
			}
			s.OriginalImage = nil
			s.CurrentImage = nil
			s.VideoResult = nil
			s.UploadedFileName = ""
			return nil
		},
		call: func(ctx context.Context, _ State) (domain.ImageData, error) {
			return c.images.Generate(ctx, prompt)
		},
		apply: func(s *State, out domain.ImageData) {
			s.OriginalImage = &out
			s.CurrentImage = &out
			s.Prompts.Generate = ""
		},
	})
}

// Edit applies prompt to the current image and replaces it with the result.
func (c *Controller) Edit(ctx context.Context, id, prompt string) (State, error) {
	return c.run(ctx, id, operation{
		name:     "edit",
		messages: []string{editingMessage},
		prepare: func(s *State) error {
			s.Prompts.Edit = prompt
			if s.CurrentImage == nil {
				return domain.NewError(domain.ErrInvalidInput, "Upload or generate an image first.")
			}
			if strings.TrimSpace(prompt) == "" {
				return domain.NewError(domain.ErrInvalidInput, "Please describe the edit you want to make.")
			}
			return nil
		},
		call: func(ctx context.Context, s State) (domain.ImageData, error) {
			return c.images.Edit(ctx, *s.CurrentImage, prompt)
		},
		apply: func(s *State, out domain.ImageData) {
			s.CurrentImage = &out
			s.VideoResult = nil
			s.Prompts.Edit = ""
		},
	})
}

// Animate turns the current image into a video. Without a ready credential
// the credential modal opens and nothing is sent.
func (c *Controller) Animate(ctx context.Context, id, prompt string) (State, error) {
	return c.run(ctx, id, operation{
		name:     "animate",
		messages: animationMessages,
		prepare: func(s *State) error {
			s.Prompts.Animate = prompt
			if s.CurrentImage == nil {
				return domain.NewError(domain.ErrInvalidInput, "Upload or generate an image first.")
			}
			if strings.TrimSpace(prompt) == "" {
				return domain.NewError(domain.ErrInvalidInput, "Please describe how the scene should move.")
			}
			if !s.CredentialReady {
				s.CredentialModalOpen = true
				return errAbort
			}
			s.VideoResult = nil
			return nil
		},
		call: func(ctx context.Context, s State) (domain.ImageData, error) {
			return c.videos.Generate(ctx, *s.CurrentImage, prompt)
		},
		apply: func(s *State, out domain.ImageData) {
			s.VideoResult = &out
		},
		fail: func(s *State, err error) {
			if errors.Is(err, domain.ErrInvalidCredential) {
				s.Error = invalidCredentialMessage
				s.CredentialReady = false
				s.CredentialModalOpen = true
				return
			}
			s.Error = domain.Message(err)
		},
	})
}

// SelectCredential marks the credential as chosen and closes the modal.
func (c *Controller) SelectCredential(ctx context.Context, id string) (State, error) {
	return c.mutate(ctx, id, func(s *State) {
		s.CredentialReady = true
		s.CredentialModalOpen = false
		if s.Error == invalidCredentialMessage {
			s.Error = ""
		}
	})
}

// ResetToOriginal discards edits by pointing current back at original.
func (c *Controller) ResetToOriginal(ctx context.Context, id string) (State, error) {
	return c.mutate(ctx, id, func(s *State) {
		s.CurrentImage = s.OriginalImage
		s.Error = ""
	})
}

// StartOver clears everything except credential readiness.
func (c *Controller) StartOver(ctx context.Context, id string) (State, error) {
	return c.mutate(ctx, id, func(s *State) {
		*s = State{
			CredentialReady:     s.CredentialReady,
			CredentialModalOpen: s.CredentialModalOpen,
		}
	})
}

type operation struct {
	name     string
	messages []string
	prepare  func(s *State) error
	call     func(ctx context.Context, s State) (domain.ImageData, error)
	apply    func(s *State, out domain.ImageData)
	fail     func(s *State, err error)
}

// run executes a provider-backed operation. The call is detached from
// request cancellation so a submitted job always runs to its own end.
func (c *Controller) run(ctx context.Context, id string, op operation) (State, error) {
	ctx = context.WithoutCancel(ctx)
	token, err := c.acquire(ctx, id)
	if err != nil {
		return State{}, err
	}
	defer c.release(ctx, id, token)

	state, err := c.loadOwned(ctx, id)
	if err != nil {
		return State{}, err
	}

	state.Error = ""
	if err := op.prepare(&state); err != nil {
		if !errors.Is(err, errAbort) {
			state.Error = domain.Message(err)
		}
		return c.save(ctx, id, state)
	}

	state.IsLoading = true
	state.LoadingMessage = op.messages[0]
	if _, err := c.save(ctx, id, state); err != nil {
		return State{}, err
	}

	stop := c.startRotation(ctx, id, op.messages)
	start := time.Now()
	out, callErr := op.call(ctx, state)
	stop()

	state.IsLoading = false
	state.LoadingMessage = ""
	if callErr != nil {
		c.logger.Warn().
			Err(callErr).
			Str("session", id).
			Str("operation", op.name).
			Dur("latency", time.Since(start)).
			Msg("studio operation failed")
		if op.fail != nil {
			op.fail(&state, callErr)
		} else {
			state.Error = domain.Message(callErr)
		}
	} else {
		c.logger.Info().
			Str("session", id).
			Str("operation", op.name).
			Dur("latency", time.Since(start)).
			Msg("studio operation completed")
		op.apply(&state, out)
	}
	return c.save(ctx, id, state)
}

// mutate applies a local change under the same busy guard as run.
func (c *Controller) mutate(ctx context.Context, id string, fn func(s *State)) (State, error) {
	token, err := c.acquire(ctx, id)
	if err != nil {
		return State{}, err
	}
	defer c.release(context.WithoutCancel(ctx), id, token)

	state, err := c.loadOwned(ctx, id)
	if err != nil {
		return State{}, err
	}
	fn(&state)
	return c.save(ctx, id, state)
}

func (c *Controller) acquire(ctx context.Context, id string) (string, error) {
	token, ok, err := c.store.Acquire(ctx, id, c.lockTTL)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", busyError()
	}
	return token, nil
}

func (c *Controller) release(ctx context.Context, id, token string) {
	if err := c.store.Release(ctx, id, token); err != nil {
		c.logger.Warn().Err(err).Str("session", id).Msg("session lock release failed")
	}
}

func (c *Controller) load(ctx context.Context, id string) (State, error) {
	state, ok, err := c.store.Load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, nil
	}
	return state, nil
}

// loadOwned loads state for a caller holding the session lock. Holders clear
// the loading flag before releasing, so a flag seen here was left by a holder
// whose lease expired.
func (c *Controller) loadOwned(ctx context.Context, id string) (State, error) {
	state, err := c.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	state.IsLoading = false
	state.LoadingMessage = ""
	return state, nil
}

func (c *Controller) save(ctx context.Context, id string, state State) (State, error) {
	state.UpdatedAt = time.Now().UTC()
	if err := c.store.Save(ctx, id, state); err != nil {
		return State{}, err
	}
	return state, nil
}

func busyError() error {
	return domain.NewError(domain.ErrBusy, "Another operation is still in progress")
}
