package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		CarEvaluation,
		CompanyCompetitiveness,
		ExperienceFit,
		FirstImpression,
		JobFacts,
		LocationFit,
		ResumeClarity,
		ResumeFacts,
	}, Names())
}

func TestAllSchemasCompile(t *testing.T) {
	for _, name := range Names() {
		_, err := load(name)
		assert.NoError(t, err, name)
	}
}

func TestValidate_JobFacts(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"full", `{"raw_title":"SRE","company_name":null,"location":"Remote","must_have_skills":["Go"],"nice_to_have_skills":[],"tools_and_tech":["k8s"],"keywords":[],"summary_for_candidate":"Run infra."}`, false},
		{"empty object", `{}`, false},
		{"null lists", `{"must_have_skills":null}`, false},
		{"skills wrong type", `{"must_have_skills":"Go, Rust"}`, true},
		{"not an object", `["Go"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(JobFacts, tt.json)
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, JobFacts, verr.Schema)
				assert.NotEmpty(t, verr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ResumeFactsNegativeYears(t *testing.T) {
	err := Validate(ResumeFacts, `{"total_years_experience": -2}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_years_experience")
}

func TestValidate_FirstImpressionHighlightBounds(t *testing.T) {
	highlight := `{"kind":"strength","area":"skills","title":"Go match","detail":"Strong Go.","importance":"high"}`
	build := func(n int) string {
		s := `{"label":"GREEN","headline":"Solid fit","quick_summary":"Looks good.","highlights":[`
		for i := 0; i < n; i++ {
			if i > 0 {
				s += ","
			}
			s += highlight
		}
		return s + `]}`
	}

	assert.Error(t, Validate(FirstImpression, build(2)))
	assert.NoError(t, Validate(FirstImpression, build(3)))
	assert.NoError(t, Validate(FirstImpression, build(7)))
	assert.Error(t, Validate(FirstImpression, build(8)))
}

func TestValidate_FirstImpressionLabel(t *testing.T) {
	doc := `{"label":"BLUE","headline":"h","quick_summary":"q","highlights":[
		{"kind":"neutral","area":"other","title":"a","detail":"b","importance":"low"},
		{"kind":"neutral","area":"other","title":"a","detail":"b","importance":"low"},
		{"kind":"neutral","area":"other","title":"a","detail":"b","importance":"low"}]}`

	err := Validate(FirstImpression, doc)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "label", verr.Errors[0].Field)
}

func TestValidate_CarEvaluationRequired(t *testing.T) {
	assert.NoError(t, Validate(CarEvaluation, `{"overall_car_score":0.7,"bullets":[],"summary_feedback":"ok"}`))
	assert.Error(t, Validate(CarEvaluation, `{"bullets":[]}`))
}

func TestValidate_FitRequiresScore(t *testing.T) {
	for _, name := range []string{ExperienceFit, LocationFit, CompanyCompetitiveness, ResumeClarity} {
		assert.NoError(t, Validate(name, `{"score":72,"analysis":"fine"}`), name)
		assert.Error(t, Validate(name, `{"analysis":"no score"}`), name)
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", `{}`)
	var lerr *SchemaLoadError
	require.True(t, errors.As(err, &lerr))
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(JobFacts, `{"raw_title":`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read job_facts document")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"global_skills":["Go"]}`), 0o600))

	assert.NoError(t, ValidateFile(ResumeFacts, path))

	err := ValidateFile(ResumeFacts, filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read")
}
