package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/schema"
)

// JobStatus represents the state of a schema build.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFetching   JobStatus = "fetching"
	StatusParsing    JobStatus = "parsing"
	StatusAssembling JobStatus = "assembling"
	StatusValidating JobStatus = "validating"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Input describes one build: either a URL to fetch or uploaded bytes.
type Input struct {
	URL      string
	Filename string
	Format   parser.Format
	Data     []byte
}

// Job tracks the state of a single schema build.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Source   string        `json:"source"`
	Filename string        `json:"filename"`
	Format   parser.Format `json:"format"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	url    string
	data   []byte
	result *schema.Schema
	errors []string
}

// Progress tracks what the build has produced so far.
type Progress struct {
	Items     int      `json:"items"`
	Types     int      `json:"types"`
	Methods   int      `json:"methods"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Errors    []string `json:"errors"`
}

// NewJob creates a queued job for in.
func NewJob(in Input) *Job {
	now := time.Now()
	src := in.URL
	if src == "" {
		src = "upload"
	}
	return &Job{
		ID:        generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Source:    src,
		Filename:  in.Filename,
		Format:    in.Format,
		CreatedAt: now,
		UpdatedAt: now,
		url:       in.URL,
		data:      in.Data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed. Any partial result is dropped.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.Progress.Errors = j.errors
	j.Progress.ErrorKind = schema.Kind(err)
	j.result = nil
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a non-fatal error, such as a retried fetch.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetItems records how many document items the segmenter produced.
func (j *Job) SetItems(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Items = n
	j.UpdatedAt = time.Now()
}

// SetData sets the raw source bytes for processing.
func (j *Job) SetData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.data = data
	j.ContentHash = ContentHashHex(data)
}

// Data returns the raw source bytes.
func (j *Job) Data() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data
}

// Complete stores the finished schema and releases the source bytes.
func (j *Job) Complete(s *schema.Schema) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = s
	j.data = nil
	j.Progress.Types, j.Progress.Methods = s.Counts()
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Result returns the schema of a completed job, or nil.
func (j *Job) Result() *schema.Schema {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string        `json:"job_id"`
	Status      JobStatus     `json:"status"`
	Phase       string        `json:"phase"`
	Source      string        `json:"source"`
	Filename    string        `json:"filename,omitempty"`
	Format      parser.Format `json:"format"`
	Progress    Progress      `json:"progress"`
	ContentHash string        `json:"content_hash,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Source:   j.Source,
		Filename: j.Filename,
		Format:   j.Format,
		Progress: Progress{
			Items:     j.Progress.Items,
			Types:     j.Progress.Types,
			Methods:   j.Progress.Methods,
			ErrorKind: j.Progress.ErrorKind,
			Errors:    errs,
		},
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
