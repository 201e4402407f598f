package download

import (
	"time"
)

// MaxURLs is the largest URL batch the backend accepts per job.
const MaxURLs = 10

// Status represents the lifecycle state of a bulk download job.
type Status string

const (
	// StatusIdle means no job has been submitted yet.
	StatusIdle Status = "Idle"

	// StatusSubmitting means the batch was accepted and the backend request
	// is being issued.
	StatusSubmitting Status = "Submitting"

	// StatusInProgress means the first progress event has arrived.
	StatusInProgress Status = "InProgress"

	// StatusCompleted means the job finished and the archive is available.
	StatusCompleted Status = "Completed"

	// StatusFailed means the job ended with a backend or connectivity error.
	StatusFailed Status = "Failed"

	// StatusCancelled means the user cancelled the job.
	StatusCancelled Status = "Cancelled"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// Active reports whether the job is occupying the single-flight slot.
func (s Status) Active() bool {
	return s == StatusSubmitting || s == StatusInProgress
}

// Terminal reports whether no further transition is possible. A terminal job
// must be discarded and replaced to retry.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Progress is the last committed progress report for a job.
type Progress struct {
	Current int
	Total   int
	Message string
}

// Job is one bulk download job. The coordinator owns the active Job
// exclusively; callers receive copies and interact only through the
// coordinator's operations.
type Job struct {
	ID         string
	URLs       []string
	Status     Status
	Progress   Progress
	Archive    []byte
	Err        error
	CreatedAt  time.Time
	FinishedAt time.Time
}

// clone returns a copy safe to hand to callers. URL and archive slices are
// shared read-only by convention.
func (j *Job) clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}
