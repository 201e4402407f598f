// Package download coordinates bulk video download jobs.
//
// The [Coordinator] enforces the single-flight rule: at most one job is
// Submitting or InProgress per client instance. A job's transitions are
// driven exclusively by progress-stream events, the archive response, and
// explicit cancellation; terminal states are final. Progress updates are
// forwarded over a channel in the engine style used throughout the CLI and
// TUI layers.
package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"github.com/VladimirStojanovski/MealStack/internal/stream"
	"github.com/charmbracelet/log"
)

// ArchiveAPI submits the URL batch and returns the zip archive bytes.
// Implemented by services.DownloadService.
type ArchiveAPI interface {
	SubmitArchive(ctx context.Context, urls []string) ([]byte, error)
}

// Tracker reports completed batch sizes to the backend's per-user download
// counter. Implemented by services.DownloadService.
type Tracker interface {
	CountDownloads(ctx context.Context, count int) (string, error)
}

// Transport is one live progress subscription.
type Transport interface {
	Events() <-chan stream.Event
	Close()
}

// TransportOpener opens a progress subscription for a URL batch.
type TransportOpener interface {
	Open(ctx context.Context, urls []string) (Transport, error)
}

// OpenerFunc adapts a function to the TransportOpener interface.
type OpenerFunc func(ctx context.Context, urls []string) (Transport, error)

func (f OpenerFunc) Open(ctx context.Context, urls []string) (Transport, error) {
	return f(ctx, urls)
}

// Recorder persists job history locally. Implementations must tolerate
// best-effort usage; recording failures never fail the job.
type Recorder interface {
	Create(id string, urlCount int, status string, createdAt time.Time) error
	Finish(id string, status string, message string, finishedAt time.Time) error
}

// Update is a progress notification sent to the UI layer while a job runs.
type Update struct {
	JobID    string
	Status   Status
	Progress Progress
}

// CoordinatorOpts contains optional collaborators for a Coordinator.
type CoordinatorOpts struct {
	Recorder Recorder
	Tracker  Tracker
	Logger   *log.Logger

	// MaxURLs caps the batch size. Zero means [MaxURLs]; values above it
	// are clamped, since the backend rejects larger batches anyway.
	MaxURLs int
}

// Coordinator manages the lifecycle of the single active download job.
type Coordinator struct {
	archive   ArchiveAPI
	transport TransportOpener
	recorder  Recorder
	tracker   Tracker
	logger    *log.Logger
	maxURLs   int

	mu      sync.Mutex
	job     *Job
	cancel  context.CancelFunc
	stream  Transport
	jobDone chan struct{}
}

// NewCoordinator creates a Coordinator with no active job.
func NewCoordinator(archive ArchiveAPI, transport TransportOpener, opts CoordinatorOpts) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	maxURLs := opts.MaxURLs
	if maxURLs <= 0 || maxURLs > MaxURLs {
		maxURLs = MaxURLs
	}
	return &Coordinator{
		archive:   archive,
		transport: transport,
		recorder:  opts.Recorder,
		tracker:   opts.Tracker,
		logger:    logger,
		maxURLs:   maxURLs,
	}
}

// Job returns a copy of the most recent job, or nil when none was submitted.
func (c *Coordinator) Job() *Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job.clone()
}

// Submit validates and launches a new bulk download job.
//
// The batch is trimmed and de-duplicated first; an empty batch or one larger
// than the configured maximum fails with [shared.ErrValidation] before any
// network call.
// If a job is already active, Submit fails with [shared.ErrBusy] and leaves
// it untouched. Progress updates are sent to the progress channel without
// blocking; the outcome is observed via Wait or Job.
func (c *Coordinator) Submit(ctx context.Context, urls []string, progress chan<- Update) (*Job, error) {
	cleaned := shared.CleanURLs(urls)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no URLs provided", shared.ErrValidation)
	}
	if len(cleaned) > c.maxURLs {
		return nil, fmt.Errorf("%w: at most %d URLs per batch, got %d", shared.ErrValidation, c.maxURLs, len(cleaned))
	}

	c.mu.Lock()
	if c.job != nil && c.job.Status.Active() {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: job %s is %s", shared.ErrBusy, c.job.ID, c.job.Status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:        shared.GenerateID(),
		URLs:      cleaned,
		Status:    StatusSubmitting,
		CreatedAt: time.Now().UTC(),
	}
	c.job = job
	c.cancel = cancel
	c.jobDone = make(chan struct{})
	c.mu.Unlock()

	st, err := c.transport.Open(runCtx, cleaned)
	if err != nil {
		cancel()
		c.fail(job.ID, err)
		return c.Job(), err
	}

	c.mu.Lock()
	c.stream = st
	c.mu.Unlock()

	if c.recorder != nil {
		if rerr := c.recorder.Create(job.ID, len(cleaned), string(StatusSubmitting), job.CreatedAt); rerr != nil {
			c.logger.Warn("failed to record download job", "error", rerr)
		}
	}

	go c.run(runCtx, job.ID, cleaned, st, progress)
	return job.clone(), nil
}

type archiveResult struct {
	data []byte
	err  error
}

// run drives one job to a terminal state: it issues the archive request,
// applies stream events in arrival order, and resolves completion once both
// the stream and the archive response have finished.
func (c *Coordinator) run(ctx context.Context, jobID string, urls []string, st Transport, progress chan<- Update) {
	archiveCh := make(chan archiveResult, 1)
	go func() {
		data, err := c.archive.SubmitArchive(ctx, urls)
		archiveCh <- archiveResult{data: data, err: err}
	}()

	var (
		archive      []byte
		archiveErr   error
		archiveDone  bool
		streamDone   bool
		streamErr    error
		eventsClosed bool
	)

	events := st.Events()
	for !(streamDone || eventsClosed) || !archiveDone {
		select {
		case ev, ok := <-events:
			if !ok {
				eventsClosed = true
				events = nil
				continue
			}
			switch {
			case ev.Progress != nil:
				c.applyProgress(jobID, *ev.Progress, progress)
			case ev.Done:
				streamDone = true
			case ev.Err != nil:
				streamDone = true
				streamErr = ev.Err
			}
		case res := <-archiveCh:
			archiveDone = true
			archive = res.data
			archiveErr = res.err
		case <-ctx.Done():
			// Cancel has already finished the job; a caller deadline has
			// not, so resolve the slot here. fail skips terminal jobs.
			st.Close()
			c.fail(jobID, ctx.Err())
			return
		}
	}
	st.Close()

	switch {
	case streamErr != nil:
		c.fail(jobID, streamErr)
	case archiveErr != nil:
		c.fail(jobID, archiveErr)
	default:
		c.complete(ctx, jobID, archive)
	}
}

// applyProgress commits a progress event to the active job. Late events for
// a replaced or terminated job are discarded, and the displayed current
// value never regresses below the last committed one.
func (c *Coordinator) applyProgress(jobID string, p stream.Progress, progress chan<- Update) {
	c.mu.Lock()
	if c.job == nil || c.job.ID != jobID || c.job.Status.Terminal() {
		c.mu.Unlock()
		return
	}

	c.job.Status = StatusInProgress
	if p.Current > c.job.Progress.Current {
		c.job.Progress.Current = p.Current
	}
	c.job.Progress.Total = p.Total
	c.job.Progress.Message = p.Message
	update := Update{JobID: jobID, Status: c.job.Status, Progress: c.job.Progress}

	// Sending while still holding the lock keeps every update strictly before
	// the terminal transition, so a caller may close the channel once Wait
	// returns without racing a straggler send.
	c.notify(progress, update)
	c.mu.Unlock()
}

// complete moves the job to Completed and exposes the archive.
func (c *Coordinator) complete(ctx context.Context, jobID string, archive []byte) {
	c.mu.Lock()
	if c.job == nil || c.job.ID != jobID || c.job.Status.Terminal() {
		c.mu.Unlock()
		return
	}
	c.job.Status = StatusCompleted
	c.job.Archive = archive
	c.job.FinishedAt = time.Now().UTC()
	urlCount := len(c.job.URLs)
	finishedAt := c.job.FinishedAt
	message := c.job.Progress.Message
	close(c.jobDone)
	c.mu.Unlock()

	c.logger.Info("download job completed", "job", jobID, "urls", urlCount)

	if c.recorder != nil {
		if err := c.recorder.Finish(jobID, string(StatusCompleted), message, finishedAt); err != nil {
			c.logger.Warn("failed to record job completion", "error", err)
		}
	}
	if c.tracker != nil {
		if _, err := c.tracker.CountDownloads(ctx, urlCount); err != nil {
			c.logger.Warn("failed to report download count", "error", err)
		}
	}
}

// fail moves the job to Failed with the classified error.
func (c *Coordinator) fail(jobID string, err error) {
	c.mu.Lock()
	if c.job == nil || c.job.ID != jobID || c.job.Status.Terminal() {
		c.mu.Unlock()
		return
	}
	c.job.Status = StatusFailed
	c.job.Err = err
	c.job.FinishedAt = time.Now().UTC()
	finishedAt := c.job.FinishedAt
	close(c.jobDone)
	c.mu.Unlock()

	c.logger.Error("download job failed", "job", jobID, "error", err)

	if c.recorder != nil {
		if rerr := c.recorder.Finish(jobID, string(StatusFailed), shared.UserMessage(err), finishedAt); rerr != nil {
			c.logger.Warn("failed to record job failure", "error", rerr)
		}
	}
}

// Cancel aborts the active job. The subscription closes before the status
// changes, so no event arriving afterwards can mutate the job. Calling
// Cancel on a terminal or absent job is a no-op.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	if c.job == nil || c.job.Status.Terminal() {
		c.mu.Unlock()
		return
	}
	jobID := c.job.ID
	st := c.stream
	cancel := c.cancel
	c.job.Status = StatusCancelled
	c.job.FinishedAt = time.Now().UTC()
	finishedAt := c.job.FinishedAt
	close(c.jobDone)
	c.mu.Unlock()

	if st != nil {
		st.Close()
	}
	if cancel != nil {
		cancel()
	}

	c.logger.Info("download job cancelled", "job", jobID)

	if c.recorder != nil {
		if err := c.recorder.Finish(jobID, string(StatusCancelled), "cancelled by user", finishedAt); err != nil {
			c.logger.Warn("failed to record job cancellation", "error", err)
		}
	}
}

// Wait blocks until the current job reaches a terminal state, then returns a
// copy of it. It returns immediately when no job was submitted.
func (c *Coordinator) Wait(ctx context.Context) (*Job, error) {
	c.mu.Lock()
	done := c.jobDone
	c.mu.Unlock()

	if done == nil {
		return c.Job(), nil
	}
	select {
	case <-done:
		return c.Job(), nil
	case <-ctx.Done():
		return c.Job(), ctx.Err()
	}
}

// notify sends a progress update without blocking. A full or absent channel
// drops the update; the terminal job state is always observable via Job.
func (c *Coordinator) notify(progress chan<- Update, update Update) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
