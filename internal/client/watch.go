package client

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"genai-camera/internal/domain"
)

// DefaultPollInterval matches the refresh rate of the web console.
const DefaultPollInterval = 10 * time.Second

// WatchCaption fetches the caption immediately and then every interval,
// passing each successful result to fn. Fetch errors are logged and the poll
// continues. It returns ctx.Err() once ctx is done.
func (c *Client) WatchCaption(ctx context.Context, interval time.Duration, fn func(domain.Classification, bool)) error {
	if fn == nil {
		return errors.New("client: watch callback must not be nil")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		rec, found, err := c.Caption(ctx)
		switch {
		case err == nil:
			fn(rec, found)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			log.Ctx(ctx).Warn().Err(err).Msg("Caption poll failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
