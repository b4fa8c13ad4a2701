// Package pipeline runs the two-pass team extraction workflow: listing-page
// instances are structured into preview records, then each record is enriched
// from its individual profile page.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/extraction"
	"github.com/jonathan/team-extractor/internal/fetch"
	"github.com/jonathan/team-extractor/internal/reconcile"
	"github.com/jonathan/team-extractor/internal/types"
	"github.com/jonathan/team-extractor/internal/urlnorm"
)

// ErrInvalidRecordSet is returned when a preview record set is missing or
// does not have the {"employees": [...]} shape.
var ErrInvalidRecordSet = errors.New("invalid record set")

// ProfileFetcher downloads a profile page and returns the fragments anchored
// on a person's name.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, url, anchorName string) ([]fetch.Fragment, error)
}

// Pass names which half of the workflow a progress event belongs to.
type Pass string

const (
	PassFirst  Pass = "first"
	PassSecond Pass = "second"
)

// Progress represents a progress update after one unit of work.
type Progress struct {
	Pass    Pass `json:"pass"`
	Current int  `json:"current"`
	Total   int  `json:"total"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event Progress)

// OutcomeStatus classifies what happened to one unit of a batch.
type OutcomeStatus string

const (
	// OutcomeExtracted: a first-pass instance produced records.
	OutcomeExtracted OutcomeStatus = "extracted"
	// OutcomeSkipped: the record has no profile URL and was emitted as is.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeUnenriched: the profile yielded nothing usable; the base record was emitted.
	OutcomeUnenriched OutcomeStatus = "unenriched"
	// OutcomeEnriched: the record was merged with its profile extraction.
	OutcomeEnriched OutcomeStatus = "enriched"
	// OutcomeFailed: a collaborator failed; the unit contributed its base record or nothing.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the per-item result of a batch.
type Outcome struct {
	Index   int           `json:"index"`
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Records int           `json:"records"`
}

// CountOutcomes tallies outcomes by status.
func CountOutcomes(outcomes []Outcome) map[OutcomeStatus]int {
	counts := make(map[OutcomeStatus]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}

// Orchestrator drives both passes. Work is strictly sequential.
type Orchestrator struct {
	Extractor  extraction.Service
	Fetcher    ProfileFetcher
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// NewOrchestrator creates an Orchestrator. A nil logger is replaced with a
// no-op logger.
func NewOrchestrator(extractor extraction.Service, fetcher ProfileFetcher, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{Extractor: extractor, Fetcher: fetcher, Logger: logger}
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Orchestrator) emitProgress(pass Pass, current, total int) {
	if o.OnProgress != nil {
		o.OnProgress(Progress{Pass: pass, Current: current, Total: total})
	}
}

// RunFirstPass submits every instance to the extraction service together
// with the listing URL and flattens the normalized records in order. An
// instance whose extraction fails contributes no records.
func (o *Orchestrator) RunFirstPass(ctx context.Context, instances []types.ContainerInstance, url string) (types.RecordSet, []Outcome) {
	log := o.logger()
	records := types.RecordSet{Employees: []types.EmployeeRecord{}}
	outcomes := make([]Outcome, 0, len(instances))

	for i, inst := range instances {
		outcome := Outcome{Index: i, Status: OutcomeExtracted}

		resp, err := o.Extractor.ExtractEmployees(ctx, inst, url)
		if err != nil {
			log.Warn("Failed to extract instance",
				zap.Int("index", i),
				zap.String("url", url),
				zap.Error(err))
			outcome.Status = OutcomeFailed
			outcome.Reason = err.Error()
		} else {
			extracted := resp.Records()
			for j := range extracted {
				if err := extracted[j].Validate(); err != nil {
					log.Warn("Record failed validation",
						zap.Int("index", i),
						zap.String("name", extracted[j].Name),
						zap.Error(err))
				}
			}
			records.Append(extracted...)
			outcome.Records = len(extracted)
		}

		outcomes = append(outcomes, outcome)
		o.emitProgress(PassFirst, i+1, len(instances))
	}

	log.Info("First pass complete",
		zap.Int("instances", len(instances)),
		zap.Int("records", records.Len()))
	return records, outcomes
}

// RunSecondPass enriches each preview record from its profile page. The
// result has the same length and order as preview; a record that cannot be
// enriched is emitted in its base form.
func (o *Orchestrator) RunSecondPass(ctx context.Context, preview *types.RecordSet) (types.RecordSet, []Outcome, error) {
	if preview == nil || preview.Employees == nil {
		return types.RecordSet{Employees: []types.EmployeeRecord{}}, nil, ErrInvalidRecordSet
	}

	log := o.logger()
	total := preview.Len()
	final := types.RecordSet{Employees: make([]types.EmployeeRecord, 0, total)}
	outcomes := make([]Outcome, 0, total)

	for i, rec := range preview.Employees {
		emitted, outcome := o.enrichRecord(ctx, i, reconcile.NormalizeRecord(rec))
		if outcome.Status == OutcomeFailed {
			log.Warn("Failed to enrich record",
				zap.Int("index", i),
				zap.String("name", rec.Name),
				zap.String("reason", outcome.Reason))
		}
		final.Append(emitted)
		outcomes = append(outcomes, outcome)
		o.emitProgress(PassSecond, i+1, total)
	}

	counts := CountOutcomes(outcomes)
	log.Info("Second pass complete",
		zap.Int("records", total),
		zap.Int("enriched", counts[OutcomeEnriched]),
		zap.Int("unenriched", counts[OutcomeUnenriched]),
		zap.Int("skipped", counts[OutcomeSkipped]),
		zap.Int("failed", counts[OutcomeFailed]))
	return final, outcomes, nil
}

// enrichRecord runs the per-record second pass. base is what gets emitted
// whenever enrichment stops early, including on panic.
func (o *Orchestrator) enrichRecord(ctx context.Context, index int, rec types.EmployeeRecord) (emitted types.EmployeeRecord, outcome Outcome) {
	outcome = Outcome{Index: index, Records: 1}

	if rec.ProfileURL == "" {
		outcome.Status = OutcomeSkipped
		return rec, outcome
	}

	base := rec
	defer func() {
		if r := recover(); r != nil {
			emitted = base
			outcome.Status = OutcomeFailed
			outcome.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	baseURL := base.MainURL
	if baseURL == "" {
		baseURL = base.ProfileURL
	}
	profileURL := urlnorm.Normalize(base.ProfileURL, urlnorm.BaseOf(baseURL))
	base.ProfileURL = profileURL

	fragments, err := o.Fetcher.FetchProfile(ctx, profileURL, base.Name)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = fmt.Sprintf("profile fetch failed: %v", err)
		return base, outcome
	}
	if len(fragments) == 0 {
		outcome.Status = OutcomeUnenriched
		outcome.Reason = "no profile content found"
		return base, outcome
	}

	resp, err := o.Extractor.ExtractEmployee(ctx, fragments, profileURL)
	if err != nil {
		outcome.Status = OutcomeFailed
		if errors.Is(err, extraction.ErrInvalidResponse) {
			outcome.Status = OutcomeUnenriched
		}
		outcome.Reason = fmt.Sprintf("profile extraction failed: %v", err)
		return base, outcome
	}
	first, ok := resp.First()
	if !ok {
		outcome.Status = OutcomeUnenriched
		outcome.Reason = "profile extraction returned no employees"
		return base, outcome
	}

	outcome.Status = OutcomeEnriched
	return reconcile.NormalizeRecord(reconcile.MergeRaw(base, first)), outcome
}
