package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/scoring"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Combine six sub-scores into a Bender score",
	Long: `Apply the Bender weights to sub-scores on a 0-100 scale. Leave --car unset
to spread the CAR weight over the other five sub-scores.`,
	RunE: runAggregate,
}

var (
	aggAts             float64
	aggExperience      float64
	aggCar             float64
	aggClarity         float64
	aggCompetitiveness float64
	aggRisk            float64
)

func init() {
	aggregateCmd.Flags().Float64Var(&aggAts, "ats", 0, "ATS alignment")
	aggregateCmd.Flags().Float64Var(&aggExperience, "experience", 0, "Experience fit")
	aggregateCmd.Flags().Float64Var(&aggCar, "car", 0, "CAR quality")
	aggregateCmd.Flags().Float64Var(&aggClarity, "clarity", 0, "Resume clarity")
	aggregateCmd.Flags().Float64Var(&aggCompetitiveness, "competitiveness", 0, "Company competitiveness")
	aggregateCmd.Flags().Float64Var(&aggRisk, "risk", 0, "Risk adjustment")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	for name, v := range map[string]float64{
		"ats":             aggAts,
		"experience":      aggExperience,
		"car":             aggCar,
		"clarity":         aggClarity,
		"competitiveness": aggCompetitiveness,
		"risk":            aggRisk,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("--%s must be a finite number, got %v", name, v)
		}
	}

	in := scoring.Inputs{
		AtsAlignment:           aggAts,
		ExperienceFit:          aggExperience,
		ResumeClarity:          aggClarity,
		CompanyCompetitiveness: aggCompetitiveness,
		RiskAdjustment:         aggRisk,
	}
	if cmd.Flags().Changed("car") {
		car := aggCar
		in.CarQuality = &car
	}
	score := scoring.NewBenderScore(in)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), score)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBenderScore(&score)
	fmt.Fprintln(cmd.OutOrStdout(), score.Explanation)
	return nil
}
