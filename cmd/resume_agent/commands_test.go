package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/resume-bender/internal/server"
	"github.com/jonathan/resume-bender/internal/types"
)

// executeCommand runs rootCmd in-process with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAggregateCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantFinal float64
		wantCar   bool
	}{
		{
			name:      "all six sub-scores",
			args:      []string{"--ats", "80", "--experience", "70", "--car", "60", "--clarity", "90", "--competitiveness", "50", "--risk", "100"},
			wantFinal: 74,
			wantCar:   true,
		},
		{
			name:      "car weight is spread when unset",
			args:      []string{"--ats", "80", "--experience", "70", "--clarity", "90", "--competitiveness", "50", "--risk", "100"},
			wantFinal: 77.5,
		},
		{
			name:      "explicit zero car is scored",
			args:      []string{"--ats", "80", "--experience", "70", "--car", "0", "--clarity", "90", "--competitiveness", "50", "--risk", "100"},
			wantFinal: 62,
			wantCar:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"aggregate", "--json"}, tt.args...)...)
			require.NoError(t, err, out)

			var score types.BenderScore
			require.NoError(t, json.Unmarshal([]byte(out), &score))
			assert.InDelta(t, tt.wantFinal, score.FinalBenderScore, 0.01)
			assert.Equal(t, tt.wantCar, score.CarQuality != nil)
			assert.NotEmpty(t, score.Explanation)
		})
	}
}

func TestAggregateCommand_Report(t *testing.T) {
	out, err := executeCommand(t, "aggregate", "--ats", "50", "--experience", "50", "--clarity", "50", "--competitiveness", "50", "--risk", "50")
	require.NoError(t, err)

	assert.Contains(t, out, "BENDER SCORE")
	assert.Contains(t, out, "CAR quality:                n/a")
	assert.Contains(t, out, "FINAL:                    50.00")
}

func TestAggregateCommand_RejectsNonFinite(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		t.Run(v, func(t *testing.T) {
			_, err := executeCommand(t, "aggregate", "--json", "--ats", v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--ats must be a finite number")
		})
	}
}

func TestAtsCommand(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.json", `{"raw_title": "Backend Engineer", "must_have_skills": ["Go", "PostgreSQL"], "nice_to_have_skills": ["Kafka"]}`)
	resume := writeFile(t, dir, "resume.json", `{"global_skills": ["golang", "postgres"], "total_years_experience": 5}`)

	out, err := executeCommand(t, "ats", "--job", job, "--resume", resume, "--json")
	require.NoError(t, err, out)

	var resp server.AtsMatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"go", "postgresql"}, resp.Ats.MatchedSkills)
	assert.Equal(t, []string{"kafka"}, resp.Ats.MissingNiceToHaveSkills)
	assert.InDelta(t, 0.7, resp.Ats.AtsScore, 1e-9)
}

func TestAtsCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "facts.json", `{}`)
	broken := writeFile(t, dir, "broken.json", `{not json`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing flags", []string{"ats"}, `required flag(s) "job", "resume" not set`},
		{"missing file", []string{"ats", "--job", filepath.Join(dir, "nope.json"), "--resume", valid}, "failed to read"},
		{"invalid json", []string{"ats", "--job", valid, "--resume", broken}, "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExtractResumeCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", "Jane   Doe\n\nGo engineer")

	out, err := executeCommand(t, "extract-resume", "--file", path, "--json")
	require.NoError(t, err, out)

	var extracted types.ResumeExtract
	require.NoError(t, json.Unmarshal([]byte(out), &extracted))
	assert.Equal(t, "resume.txt", extracted.Filename)
	assert.Equal(t, len("Jane Doe Go engineer"), extracted.TextLength)

	var withText struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &withText))
	assert.Equal(t, "Jane Doe Go engineer", withText.Text)
}

func TestExtractResumeCommand_Unsupported(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.rtf", "{\\rtf1}")

	_, err := executeCommand(t, "extract-resume", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported file type")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"global_skills":["Go"],"total_years_experience":4}`)
	bad := writeFile(t, dir, "bad.json", `{"total_years_experience":-2}`)

	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr string
	}{
		{name: "valid", args: []string{"--schema", "resume_facts", "--file", good}, wantOut: "valid resume_facts document"},
		{name: "invalid", args: []string{"--schema", "resume_facts", "--file", bad}, wantErr: "total_years_experience"},
		{name: "unknown schema", args: []string{"--schema", "nope", "--file", good}, wantErr: `unknown schema "nope"`},
		{name: "missing file", args: []string{"--schema", "job_facts", "--file", filepath.Join(dir, "none.json")}, wantErr: "failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"validate"}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err, out)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestPipelineCommands_RequireAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Senior Go engineer")
	job := writeFile(t, dir, "job.txt", "Backend role")

	for _, name := range []string{"first-impression", "bender"} {
		t.Run(name, func(t *testing.T) {
			_, err := executeCommand(t, name, "--resume", resume, "--job", job)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "GEMINI_API_KEY environment variable is required")
		})
	}
}

func TestPipelineCommands_MissingInput(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", "Backend role")

	_, err := executeCommand(t, "bender", "--resume", filepath.Join(dir, "missing.txt"), "--job", job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume: file not found")
}

func TestStoreCommands_RequireDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := [][]string{
		{"runs", "list"},
		{"runs", "show", "6f1c2a38-9c1e-4d5b-8f3e-2a7b9c0d1e2f"},
		{"runs", "delete", "6f1c2a38-9c1e-4d5b-8f3e-2a7b9c0d1e2f"},
		{"account", "set-plan", "--user", "6f1c2a38-9c1e-4d5b-8f3e-2a7b9c0d1e2f", "--plan", "pro"},
	}
	for _, args := range tests {
		t.Run(args[0]+" "+args[1], func(t *testing.T) {
			_, err := executeCommand(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL environment variable is required")
		})
	}
}

func TestRunsShow_InvalidID(t *testing.T) {
	_, err := executeCommand(t, "runs", "show", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run id")
}

func TestSetPlan_NegativeAllowance(t *testing.T) {
	_, err := executeCommand(t, "account", "set-plan", "--user", "6f1c2a38-9c1e-4d5b-8f3e-2a7b9c0d1e2f", "--allowance", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--allowance must be non-negative")
}

func TestHashAdminKey(t *testing.T) {
	out, err := executeCommand(t, "account", "hash-admin-key", "s3cret", "--pepper", "salt", "--cost", "10")
	require.NoError(t, err)

	hash := bytes.TrimSpace([]byte(out))
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cretsalt")))

	_, err = executeCommand(t, "account", "hash-admin-key", "s3cret", "--cost", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cost must be between 10 and 14")
}

func TestReadBullets(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bullets.txt", "- Built the billing API\n\n• Cut p99 latency by 40%\n")

	bullets, err := readBullets(path)
	require.NoError(t, err)
	assert.Len(t, bullets, 2)

	bullets, err = readBullets("")
	require.NoError(t, err)
	assert.Nil(t, bullets)
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	bin := getBinaryPath(t)

	cmd := exec.Command(bin, "aggregate", "--bogus")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown flag: --bogus")
}
