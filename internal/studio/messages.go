package studio

import (
	"context"
	"sync"
	"time"
)

const (
	generatingMessage = "Generating your image..."
	editingMessage    = "Applying your edit..."
)

// animationMessages rotate while a video job is outstanding.
var animationMessages = []string{
	"Sending your scene to the holosuite...",
	"Setting up the cameras...",
	"Teaching the pixels to move...",
	"Rendering the first frames...",
	"Adding depth and motion...",
	"This can take a few minutes, hang tight...",
	"Polishing the final cut...",
}

// startRotation cycles the session's loading message every interval until
// the returned stop function is called. stop waits for the goroutine to exit.
func (c *Controller) startRotation(ctx context.Context, id string, messages []string) (stop func()) {
	if c.messageInterval <= 0 || len(messages) < 2 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(c.messageInterval)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				i = (i + 1) % len(messages)
				c.setLoadingMessage(ctx, id, messages[i])
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (c *Controller) setLoadingMessage(ctx context.Context, id, message string) {
	state, ok, err := c.store.Load(ctx, id)
	if err != nil || !ok || !state.IsLoading {
		if err != nil {
			c.logger.Warn().Err(err).Str("session", id).Msg("loading message update skipped")
		}
		return
	}
	state.LoadingMessage = message
	if err := c.store.Save(ctx, id, state); err != nil {
		c.logger.Warn().Err(err).Str("session", id).Msg("loading message update failed")
	}
}
