package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Coordinator serializes capture requests onto a single background
// worker so acquisitions never overlap, per §4.6. The render loop
// submits requests without blocking and polls TryTakeOutcome once per
// frame. Hiding and restoring the layer surface around the acquisition
// is the render loop's responsibility (§5: layer surface state is
// owned by the event-loop thread), not the coordinator's — the worker
// goroutine here must never touch Wayland objects.
type Coordinator struct {
	source    Source
	clipboard ClipboardWriter
	logger    zerolog.Logger

	requests chan Request

	mu      sync.Mutex
	status  Status
	outcome *Outcome

	wg   sync.WaitGroup
	stop chan struct{}
}

// NewCoordinator starts the background worker goroutine.
func NewCoordinator(source Source, clip ClipboardWriter) *Coordinator {
	c := &Coordinator{
		source:    source,
		clipboard: clip,
		logger:    log.With().Str("component", "capture").Logger(),
		requests:  make(chan Request, 16),
		status:    StatusIdle,
		stop:      make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// Submit enqueues req without blocking the render loop. A full queue
// (16 pending requests) drops the request and logs a warning; in
// practice the UI only allows one capture in flight.
func (c *Coordinator) Submit(req Request) {
	select {
	case c.requests <- req:
		c.mu.Lock()
		c.status = StatusInProgress
		c.mu.Unlock()
	default:
		c.logger.Warn().Msg("capture request dropped, queue full")
	}
}

// Status reports the coordinator's current externally observable state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// TryTakeOutcome returns the pending outcome and clears it, or ok=false
// if none is pending. Intended to be polled once per render frame.
func (c *Coordinator) TryTakeOutcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return Outcome{}, false
	}
	out := *c.outcome
	c.outcome = nil
	c.status = StatusIdle
	return out, true
}

// Close stops the worker goroutine and waits for it to exit.
func (c *Coordinator) Close() {
	close(c.stop)
	c.wg.Wait()
}

func (c *Coordinator) run() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stop:
			return
		case req := <-c.requests:
			c.process(req)
		}
	}
}

func (c *Coordinator) process(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := c.source.Capture(ctx, req)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			c.setOutcome(Outcome{Cancelled: "cancelled by user"})
			return
		}
		c.logger.Error().Err(err).Msg("capture failed")
		c.setOutcome(Outcome{Failed: FriendlyError(err.Error())})
		return
	}

	outcome := Outcome{Success: true, Bytes: data}

	if req.Destination.WantsFile() && req.FileSave != nil {
		filename := RenderFilename(req.FileSave.Template, req.FileSave.Format, time.Now())
		path, err := WriteCaptureFile(req.FileSave.Dir, filename, data)
		if err != nil {
			c.logger.Error().Err(err).Msg("capture file save failed")
			c.setOutcome(Outcome{Failed: FriendlyError(err.Error())})
			return
		}
		outcome.SavedPath = path
	}

	if req.Destination.WantsClipboard() && c.clipboard != nil {
		if err := c.clipboard.WriteImage(ctx, data); err != nil {
			c.logger.Warn().Err(err).Msg("clipboard copy failed")
		} else {
			outcome.CopiedToClipboard = true
		}
	}

	c.setOutcome(outcome)
}

func (c *Coordinator) setOutcome(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome = &o
	switch {
	case o.Cancelled != "":
		c.status = StatusCancelled
	case o.Failed != "":
		c.status = StatusFailed
	default:
		c.status = StatusSuccess
	}
}
