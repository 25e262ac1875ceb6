package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

var classAnalyticsCmd = &cobra.Command{
	Use:   "class-analytics <class-id>",
	Short: "Print the dashboard rollup for a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("period")
		period := models.AnalyticsPeriod(raw)
		if !period.Valid() {
			return fmt.Errorf("unknown period %q", raw)
		}
		alertsOnly, _ := cmd.Flags().GetBool("alerts")
		return withEngine(cmd, func(ctx context.Context, eng *engine) (interface{}, error) {
			if alertsOnly {
				roster, err := eng.classes.Roster(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return eng.alerts.Detect(ctx, roster.StudentIDs)
			}
			return eng.classes.ClassAnalytics(ctx, args[0], period)
		})
	},
}

var studentCmd = &cobra.Command{
	Use:   "student <student-id>",
	Short: "Print a student's progress rollup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine) (interface{}, error) {
			return eng.students.StudentAnalytics(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(classAnalyticsCmd, studentCmd)

	classAnalyticsCmd.Flags().String("period", string(models.AnalyticsPeriodWeek), "week|month")
	classAnalyticsCmd.Flags().Bool("alerts", false, "print every attention alert instead of the rollup")
}
