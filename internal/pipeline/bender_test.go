package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-bender/internal/risk"
	"github.com/jonathan/resume-bender/internal/scoring"
)

func TestBenderRunner_WithoutBullets(t *testing.T) {
	fe := &fakeEvaluator{}
	b := NewBenderRunner(fe, newScorer(), nil, nil)

	res, err := b.Run(context.Background(), Input{ResumeText: "r", JobText: "j"}, nil)

	require.NoError(t, err)
	assert.False(t, fe.called(StepCarEvaluate))
	assert.Nil(t, res.Score.CarQuality)
	assert.Equal(t, 70.0, res.Score.AtsAlignment)
	assert.Equal(t, 80.0, res.Score.ExperienceFit)
	assert.Equal(t, 70.0, res.Score.ResumeClarity)
	assert.Equal(t, 60.0, res.Score.CompanyCompetitiveness)
	require.NotNil(t, res.Location)

	riskScore := scoring.Scale(risk.Assess(*res.Job, *res.Resume, res.Ats).RiskScore)
	want := scoring.NewBenderScore(scoring.Inputs{
		AtsAlignment:           70,
		ExperienceFit:          80,
		ResumeClarity:          70,
		CompanyCompetitiveness: 60,
		RiskAdjustment:         riskScore,
	})
	assert.Equal(t, want.FinalBenderScore, res.Score.FinalBenderScore)
}

func TestBenderRunner_WithBullets(t *testing.T) {
	fe := &fakeEvaluator{carScore: 0.5}
	b := NewBenderRunner(fe, newScorer(), nil, nil)

	res, err := b.Run(context.Background(), Input{Bullets: []string{"Shipped X"}}, nil)

	require.NoError(t, err)
	require.NotNil(t, res.Score.CarQuality)
	assert.Equal(t, 50.0, *res.Score.CarQuality)
	require.NotNil(t, res.Car)
}

func TestBenderRunner_SubScoreFailureIsFatal(t *testing.T) {
	rec := newFakeRecorder()
	b := NewBenderRunner(&fakeEvaluator{clarityErr: errors.New("timeout")}, newScorer(), rec, nil)

	res, err := b.Run(context.Background(), Input{}, nil)

	assert.Nil(t, res)
	assert.ErrorContains(t, err, "resume_clarity failed")
	assert.Equal(t, StatusFailed, rec.status)
}

func TestBenderRunner_LocationFailureIsTolerated(t *testing.T) {
	rec := newFakeRecorder()
	b := NewBenderRunner(&fakeEvaluator{locationErr: errors.New("bad reply")}, newScorer(), rec, nil)

	res, err := b.Run(context.Background(), Input{}, nil)

	require.NoError(t, err)
	assert.Nil(t, res.Location)
	assert.Equal(t, StatusCompleted, rec.status)
	assert.Contains(t, rec.artifacts, StepBenderScore)
	assert.NotContains(t, rec.artifacts, StepLocationFit)
}
