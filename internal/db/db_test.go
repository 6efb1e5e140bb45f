package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-bender/internal/types"
)

func TestBuildRunQuery(t *testing.T) {
	tests := []struct {
		name      string
		filters   RunFilters
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters uses the default limit",
			wantWhere: "WHERE 1=1 ORDER BY created_at DESC LIMIT $1",
			wantArgs:  []any{DefaultListLimit},
		},
		{
			name:      "kind and status",
			filters:   RunFilters{Kind: "bender", Status: "failed", Limit: 5},
			wantWhere: "WHERE 1=1 AND kind = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3",
			wantArgs:  []any{"bender", "failed", 5},
		},
		{
			name:      "company is a substring match",
			filters:   RunFilters{Company: "Acme", Limit: 10},
			wantWhere: "WHERE 1=1 AND company ILIKE $1 ORDER BY created_at DESC LIMIT $2",
			wantArgs:  []any{"%Acme%", 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildRunQuery(tt.filters)
			assert.Contains(t, query, "FROM scoring_runs "+tt.wantWhere)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestDecodeArtifact(t *testing.T) {
	t.Run("absent step", func(t *testing.T) {
		got, err := decodeArtifact[types.BenderScore](nil, StepBenderScore)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("valid content", func(t *testing.T) {
		got, err := decodeArtifact[types.JobFacts]([]byte(`{"raw_title":"Backend Engineer","must_have_skills":["go"]}`), StepJobFacts)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Backend Engineer", got.Title())
		assert.Equal(t, []string{"go"}, got.MustHaveSkills)
	})

	t.Run("corrupt content", func(t *testing.T) {
		_, err := decodeArtifact[types.FirstImpression]([]byte(`{`), StepFirstImpression)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal summarize")
	})
}

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"scoring_runs", "run_artifacts", "users", "drafts", "analytics_events"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		Kind:      "first_impression",
		Company:   "TestCorp",
		RoleTitle: "Engineer",
		Status:    "running",
	}

	assert.Equal(t, "TestCorp", run.Company)
	assert.Nil(t, run.CompletedAt)
}
