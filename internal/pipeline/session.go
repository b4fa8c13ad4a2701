package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/team-extractor/internal/segment"
	"github.com/jonathan/team-extractor/internal/types"
)

// DefaultContainerID is the container processed when none is selected.
const DefaultContainerID = "1"

var (
	// ErrBusy is returned when a run is started while another is in progress.
	ErrBusy = errors.New("session is already processing")
	// ErrNoContainers is returned when a session has no segmented input.
	ErrNoContainers = errors.New("no containers loaded")
)

// Session holds the state of one submission: the segmented input and the
// record sets derived from it. All access goes through the mutex so Reset
// is observed as a single step.
type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	rawText    string
	url        string
	containers types.ContainerMap
	preview    *types.RecordSet
	final      *types.RecordSet
	processing bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{id: uuid.New()}
}

// ID identifies the current submission. It changes on every Reset.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Reset clears every field at once and starts a new submission.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.New()
	s.rawText = ""
	s.url = ""
	s.containers = types.ContainerMap{}
	s.preview = nil
	s.final = nil
	s.processing = false
}

// Load segments rawText and replaces the container map and earlier results.
func (s *Session) Load(rawText, url string) []segment.Warning {
	containers, warnings := segment.Segment(rawText)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawText = rawText
	s.url = url
	s.containers = containers
	s.preview = nil
	s.final = nil
	return warnings
}

// RawText returns the submitted text.
func (s *Session) RawText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawText
}

// URL returns the listing URL of the submission.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Containers returns the segmented input.
func (s *Session) Containers() types.ContainerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containers
}

// Instances returns the instances of containerID in scan order.
func (s *Session) Instances(containerID string) ([]types.ContainerInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.containers.IsEmpty() {
		return nil, ErrNoContainers
	}
	c, ok := s.containers.Get(containerID)
	if !ok {
		return nil, fmt.Errorf("container %q not found", containerID)
	}
	return c.Contents(), nil
}

// Preview returns the first-pass records, or nil before the first pass.
func (s *Session) Preview() *types.RecordSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// SetPreview stores the first-pass records.
func (s *Session) SetPreview(rs *types.RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = rs
}

// Final returns the enriched records, or nil before the second pass.
func (s *Session) Final() *types.RecordSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

// SetFinal stores the enriched records.
func (s *Session) SetFinal(rs *types.RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.final = rs
}

// Processing reports whether a run is in progress.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrBusy
	}
	s.processing = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// Report summarizes one session run.
type Report struct {
	ContainerID string
	Preview     types.RecordSet
	Final       types.RecordSet
	FirstPass   []Outcome
	SecondPass  []Outcome
}

// RunSession processes one container of the session through both passes
// and stores the preview and final record sets on it. An empty containerID
// selects DefaultContainerID.
func (o *Orchestrator) RunSession(ctx context.Context, s *Session, containerID string) (*Report, error) {
	if containerID == "" {
		containerID = DefaultContainerID
	}
	instances, err := s.Instances(containerID)
	if err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	report := &Report{ContainerID: containerID}

	report.Preview, report.FirstPass = o.RunFirstPass(ctx, instances, s.URL())
	preview := report.Preview
	s.SetPreview(&preview)

	report.Final, report.SecondPass, err = o.RunSecondPass(ctx, &preview)
	if err != nil {
		return report, fmt.Errorf("second pass failed: %w", err)
	}
	final := report.Final
	s.SetFinal(&final)

	return report, nil
}
