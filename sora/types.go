// Package sora provides an HTTP client for the Azure OpenAI Sora video
// generation API. It covers job submission, status polling, and download
// of generated video and GIF content.
package sora

import (
	"fmt"
	"strconv"
)

// JobStatus represents the remote state of a video generation job.
type JobStatus string

// Job statuses aligned with the Azure OpenAI video generation API.
const (
	// StatusPending indicates the job is accepted but not yet running.
	StatusPending JobStatus = "pending"
	// StatusRunning indicates the job is being processed.
	StatusRunning JobStatus = "running"
	// StatusSucceeded indicates the job finished and produced generations.
	StatusSucceeded JobStatus = "succeeded"
	// StatusFailed indicates the job encountered an error during execution.
	StatusFailed JobStatus = "failed"
	// StatusCancelled indicates the job was cancelled before completion.
	StatusCancelled JobStatus = "cancelled"
)

// IsTerminal returns true if the status is a terminal state.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// normalizeStatus maps the raw status strings the service emits onto the
// five-state enum. The service reports early lifecycle phases
// ("preprocessing", "queued") and "processing" which collapse into
// pending and running respectively.
func normalizeStatus(raw string) JobStatus {
	switch raw {
	case "pending", "preprocessing", "queued":
		return StatusPending
	case "running", "processing":
		return StatusRunning
	case "succeeded":
		return StatusSucceeded
	case "failed":
		return StatusFailed
	case "cancelled":
		return StatusCancelled
	default:
		return JobStatus(raw)
	}
}

// GenerationRequest holds the parameters for a video generation job.
// Width and height must form one of the supported resolutions, NSeconds
// must be between 1 and 20, and NVariants is capped by the resolution
// tier (see ValidateRequest).
type GenerationRequest struct {
	// Prompt is the text prompt describing the video to generate.
	Prompt string `validate:"required"`
	// Width is the video width in pixels.
	Width int `validate:"required"`
	// Height is the video height in pixels.
	Height int `validate:"required"`
	// NSeconds is the video duration in seconds (1-20).
	NSeconds int `validate:"min=1,max=20"`
	// NVariants is the number of variants to generate.
	NVariants int `validate:"min=1"`
}

// Generation is one concrete output produced by a job. A job may produce
// multiple generations (variants). Generations are immutable snapshots of
// remote state.
type Generation struct {
	// ID is the opaque generation identifier assigned by the service.
	ID string
	// JobID is the identifier of the job that produced this generation.
	JobID string
	// CreatedAt is the creation time as a Unix timestamp.
	CreatedAt int64
	// Width is the video width in pixels.
	Width int
	// Height is the video height in pixels.
	Height int
	// NSeconds is the video duration in seconds.
	NSeconds int
	// Prompt is the prompt the generation was created from.
	Prompt string
}

// Job is a snapshot of a remote video generation job. The client never
// mutates job state locally; a fresh snapshot is obtained by re-fetching
// from the service.
type Job struct {
	// ID is the opaque job identifier assigned by the service.
	ID string
	// Status is the job state at the time of the snapshot.
	Status JobStatus
	// Prompt is the text prompt the job was created from.
	Prompt string
	// Width is the requested video width in pixels.
	Width int
	// Height is the requested video height in pixels.
	Height int
	// NSeconds is the requested duration in seconds.
	NSeconds int
	// NVariants is the requested number of variants.
	NVariants int
	// Generations holds the produced outputs once the job has succeeded.
	Generations []Generation
	// FinishedAt is the completion time as a Unix timestamp, zero while
	// the job is still in progress.
	FinishedAt int64
	// FailureReason is an opaque message the service attaches to failed
	// jobs. Its structure is not specified by the API.
	FailureReason string
}

// JobList is one page of video generation jobs.
type JobList struct {
	// Jobs holds the returned page of jobs.
	Jobs []Job
	// HasMore indicates whether more jobs exist beyond this page.
	HasMore bool
	// FirstID is the identifier of the first job in the page.
	FirstID string
	// LastID is the identifier of the last job in the page.
	LastID string
}

// createJobRequest is the wire payload for the create-job endpoint. The
// service expects every numeric field serialized as a string, and the
// model field carries the deployment name.
type createJobRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Height    string `json:"height"`
	Width     string `json:"width"`
	NSeconds  string `json:"n_seconds"`
	NVariants string `json:"n_variants"`
}

// newCreateJobRequest transforms a validated request into its wire form.
func newCreateJobRequest(model string, req GenerationRequest) createJobRequest {
	return createJobRequest{
		Model:     model,
		Prompt:    req.Prompt,
		Height:    strconv.Itoa(req.Height),
		Width:     strconv.Itoa(req.Width),
		NSeconds:  strconv.Itoa(req.NSeconds),
		NVariants: strconv.Itoa(req.NVariants),
	}
}

// toRequest parses the wire payload back into its logical form. The
// transformation is lossless apart from the model field, which belongs to
// the client configuration rather than the request.
func (r createJobRequest) toRequest() (GenerationRequest, error) {
	req := GenerationRequest{Prompt: r.Prompt}

	var err error
	if req.Height, err = strconv.Atoi(r.Height); err != nil {
		return GenerationRequest{}, fmt.Errorf("sora: parse height: %w", err)
	}
	if req.Width, err = strconv.Atoi(r.Width); err != nil {
		return GenerationRequest{}, fmt.Errorf("sora: parse width: %w", err)
	}
	if req.NSeconds, err = strconv.Atoi(r.NSeconds); err != nil {
		return GenerationRequest{}, fmt.Errorf("sora: parse n_seconds: %w", err)
	}
	if req.NVariants, err = strconv.Atoi(r.NVariants); err != nil {
		return GenerationRequest{}, fmt.Errorf("sora: parse n_variants: %w", err)
	}
	return req, nil
}

// generationResource is the wire form of a generation.
type generationResource struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	CreatedAt int64  `json:"created_at"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	NSeconds  int    `json:"n_seconds"`
	Prompt    string `json:"prompt"`
}

func (r generationResource) toGeneration() Generation {
	return Generation{
		ID:        r.ID,
		JobID:     r.JobID,
		CreatedAt: r.CreatedAt,
		Width:     r.Width,
		Height:    r.Height,
		NSeconds:  r.NSeconds,
		Prompt:    r.Prompt,
	}
}

// jobResource is the wire form of a job.
type jobResource struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Prompt        string               `json:"prompt"`
	NVariants     int                  `json:"n_variants"`
	NSeconds      int                  `json:"n_seconds"`
	Height        int                  `json:"height"`
	Width         int                  `json:"width"`
	Generations   []generationResource `json:"generations,omitempty"`
	FinishedAt    int64                `json:"finished_at,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
}

func (r jobResource) toJob() *Job {
	job := &Job{
		ID:            r.ID,
		Status:        normalizeStatus(r.Status),
		Prompt:        r.Prompt,
		NVariants:     r.NVariants,
		NSeconds:      r.NSeconds,
		Height:        r.Height,
		Width:         r.Width,
		FinishedAt:    r.FinishedAt,
		FailureReason: r.FailureReason,
	}
	for _, gen := range r.Generations {
		job.Generations = append(job.Generations, gen.toGeneration())
	}
	return job
}

// jobListResource is the wire form of a job list page.
type jobListResource struct {
	Data    []jobResource `json:"data"`
	HasMore bool          `json:"has_more"`
	FirstID string        `json:"first_id"`
	LastID  string        `json:"last_id"`
}

func (r jobListResource) toJobList() *JobList {
	list := &JobList{
		HasMore: r.HasMore,
		FirstID: r.FirstID,
		LastID:  r.LastID,
	}
	for _, res := range r.Data {
		list.Jobs = append(list.Jobs, *res.toJob())
	}
	return list
}
