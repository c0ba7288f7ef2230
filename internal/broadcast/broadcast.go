// Package broadcast fans a message out to the full bot-user audience,
// one recipient at a time, with a small delay between sends to respect
// outbound rate limits.
package broadcast

import (
	"context"
	"log/slog"
	"time"
)

// Sender delivers one message to one recipient identity. A failed
// delivery must come back as an error, not a panic.
type Sender interface {
	SendTo(ctx context.Context, identity, text string) error
}

// Report is the outcome of one fan-out run.
type Report struct {
	Sent   int
	Failed int
}

// Progress is called at a bounded cadence while a run is in flight.
// done is the number of recipients processed so far.
type Progress func(done, total, sent, failed int)

// Coordinator runs sequential fan-outs. One Run per invocation; the
// loop stops early only when the caller's context is cancelled.
type Coordinator struct {
	sender Sender
	log    *slog.Logger

	// delay between deliveries; progressEvery bounds how often the
	// Progress callback fires.
	delay         time.Duration
	progressEvery int
}

func New(sender Sender, log *slog.Logger) *Coordinator {
	return &Coordinator{
		sender:        sender,
		log:           log,
		delay:         50 * time.Millisecond,
		progressEvery: 10,
	}
}

// Run delivers text to every identity in audience. Per-recipient
// failures are counted and skipped; they never abort the remaining run.
// On context cancellation the partial report is returned with the
// context error.
func (c *Coordinator) Run(ctx context.Context, text string, audience []string, progress Progress) (Report, error) {
	var rep Report
	total := len(audience)
	for i, identity := range audience {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := c.sender.SendTo(ctx, identity, text); err != nil {
			c.log.Warn("broadcast delivery failed", "identity", identity, "err", err)
			rep.Failed++
		} else {
			rep.Sent++
		}
		done := i + 1
		if progress != nil && (done%c.progressEvery == 0 || done == total) {
			progress(done, total, rep.Sent, rep.Failed)
		}
		if done < total {
			select {
			case <-ctx.Done():
				return rep, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}
	return rep, nil
}
