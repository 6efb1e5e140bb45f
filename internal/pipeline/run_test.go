package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/types"
)

// fakeEvaluator implements every collaborator interface with canned replies.
type fakeEvaluator struct {
	mu    sync.Mutex
	calls []string

	scanJobErr    error
	scanResumeErr error
	carErr        error
	clarityErr    error
	locationErr   error

	carScore   float64
	summarized *evaluation.SummaryContext
}

func (f *fakeEvaluator) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
}

func (f *fakeEvaluator) called(step string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == step {
			return true
		}
	}
	return false
}

func (f *fakeEvaluator) ScanJob(_ context.Context, _ string) (*types.JobFacts, error) {
	f.record(StepScanJob)
	if f.scanJobErr != nil {
		return nil, f.scanJobErr
	}
	return &types.JobFacts{
		RawTitle:         types.StringPtr("Backend Engineer"),
		CompanyName:      types.StringPtr("Acme"),
		MustHaveSkills:   []string{"Go", "PostgreSQL"},
		NiceToHaveSkills: []string{"Kubernetes"},
	}, nil
}

func (f *fakeEvaluator) ScanResume(_ context.Context, _ string) (*types.ResumeFacts, error) {
	f.record(StepScanResume)
	if f.scanResumeErr != nil {
		return nil, f.scanResumeErr
	}
	return &types.ResumeFacts{
		TotalYearsExperience: types.Float64Ptr(5),
		GlobalSkills:         []string{"Golang", "Postgres"},
		ToolsAndTech:         []string{"Docker"},
	}, nil
}

func (f *fakeEvaluator) EvaluateCar(_ context.Context, in types.CarEvaluateInput) (*types.CarEvaluation, error) {
	f.record(StepCarEvaluate)
	if f.carErr != nil {
		return nil, f.carErr
	}
	return &types.CarEvaluation{OverallCarScore: f.carScore, Bullets: []types.CarBulletAnalysis{{Original: in.Bullets[0]}}}, nil
}

func (f *fakeEvaluator) Summarize(_ context.Context, sc evaluation.SummaryContext) (*types.FirstImpression, error) {
	f.record(StepSummarize)
	f.summarized = &sc
	car := 0.99
	return &types.FirstImpression{
		AtsScore:  0.01,
		RiskScore: 0.02,
		CarScore:  &car,
		Label:     types.LabelGreen,
		Headline:  "Strong fit",
		Highlights: []types.Highlight{
			{Kind: types.KindStrength}, {Kind: types.KindStrength}, {Kind: types.KindNeutral},
		},
	}, nil
}

func (f *fakeEvaluator) ExperienceFit(_ context.Context, _ *types.JobFacts, _ *types.ResumeFacts) (*types.ExperienceFit, error) {
	f.record(StepExperienceFit)
	return &types.ExperienceFit{Score: 80}, nil
}

func (f *fakeEvaluator) LocationFit(_ context.Context, _ *types.JobFacts, _ *types.ResumeFacts) (*types.LocationFit, error) {
	f.record(StepLocationFit)
	if f.locationErr != nil {
		return nil, f.locationErr
	}
	return &types.LocationFit{Score: 90}, nil
}

func (f *fakeEvaluator) CompanyCompetitiveness(_ context.Context, _ *types.JobFacts, _ *types.ResumeFacts) (*types.CompanyCompetitiveness, error) {
	f.record(StepCompanyCompetitiveness)
	return &types.CompanyCompetitiveness{Score: 60}, nil
}

func (f *fakeEvaluator) ResumeClarity(_ context.Context, _ string) (*types.ResumeClarity, error) {
	f.record(StepResumeClarity)
	if f.clarityErr != nil {
		return nil, f.clarityErr
	}
	return &types.ResumeClarity{Score: 70}, nil
}

// fakeRecorder is an in-memory Recorder.
type fakeRecorder struct {
	mu        sync.Mutex
	id        uuid.UUID
	kind      string
	company   string
	artifacts map[string]any
	status    string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{id: uuid.New(), artifacts: make(map[string]any)}
}

func (f *fakeRecorder) CreateRun(_ context.Context, kind, company, _ string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kind = kind
	f.company = company
	return f.id, nil
}

func (f *fakeRecorder) SaveArtifact(_ context.Context, _ uuid.UUID, step, _ string, content any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts[step] = content
	return nil
}

func (f *fakeRecorder) CompleteRun(_ context.Context, _ uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	return nil
}

func newScorer() *matching.Scorer {
	return matching.NewScorer(matching.NewMatcher(matching.DefaultAliasTable()))
}

func TestInput_HasBullets(t *testing.T) {
	assert.False(t, Input{}.HasBullets())
	assert.False(t, Input{Bullets: []string{"", "  "}}.HasBullets())
	assert.True(t, Input{Bullets: []string{"", "Shipped X"}}.HasBullets())
}

func TestScanAndMatch_LogsEachStep(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newRun(zap.New(core), nil, KindFirstImpression, nil)

	m, err := scanAndMatch(context.Background(), r, &fakeEvaluator{}, newScorer(), Input{})
	require.NoError(t, err)

	// golang and postgres resolve through aliases; kubernetes is missing.
	assert.InDelta(t, 0.7, m.Ats.AtsScore, 1e-9)
	assert.Equal(t, []string{"kubernetes"}, m.Ats.MissingNiceToHaveSkills)
	done := logs.FilterMessage("step_done").All()
	require.Len(t, done, 4)
	steps := make([]string, 0, len(done))
	for _, entry := range done {
		steps = append(steps, entry.ContextMap()["step"].(string))
	}
	assert.Equal(t, []string{StepScanJob, StepScanResume, StepAtsMatch, StepRiskAdjust}, steps)
}

func TestScanAndMatch_ScanFailureIsFatal(t *testing.T) {
	cause := errors.New("boom")
	fe := &fakeEvaluator{scanResumeErr: cause}
	r := newRun(nil, nil, KindFirstImpression, nil)

	m, err := scanAndMatch(context.Background(), r, fe, newScorer(), Input{})

	assert.Nil(t, m)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "scan_resume failed")
}
