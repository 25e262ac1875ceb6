package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print a ranked leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		return withEngine(cmd, func(ctx context.Context, eng *engine) (interface{}, error) {
			board, _, err := eng.leaderboards.Build(ctx, filter)
			return board, err
		})
	},
}

var positionCmd = &cobra.Command{
	Use:   "position <user-id>",
	Short: "Print a user's leaderboard position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		filter.RequestingUserID = args[0]
		return withEngine(cmd, func(ctx context.Context, eng *engine) (interface{}, error) {
			position, _, err := eng.leaderboards.Position(ctx, filter)
			if err != nil {
				return nil, err
			}
			if position == nil {
				return map[string]string{"status": "unranked"}, nil
			}
			return position, nil
		})
	},
}

func filterFromFlags(cmd *cobra.Command) (models.LeaderboardFilter, error) {
	metric, _ := cmd.Flags().GetString("metric")
	period, _ := cmd.Flags().GetString("period")
	scope, _ := cmd.Flags().GetString("scope")
	limit, _ := cmd.Flags().GetInt("limit")
	user, _ := cmd.Flags().GetString("user")

	filter := models.LeaderboardFilter{
		Metric:           models.Metric(metric),
		Period:           models.Period(period),
		Scope:            models.Scope(scope),
		Limit:            limit,
		RequestingUserID: user,
	}
	switch {
	case !filter.Metric.Valid():
		return filter, fmt.Errorf("unknown metric %q", metric)
	case !filter.Period.Valid():
		return filter, fmt.Errorf("unknown period %q", period)
	case !filter.Scope.Valid():
		return filter, fmt.Errorf("unknown scope %q", scope)
	}
	return filter, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("metric", string(models.MetricWordsLearned), "wordsLearned|currentStreak|accuracy|timeSpent")
	cmd.Flags().String("period", string(models.PeriodWeekly), "daily|weekly|monthly|allTime")
	cmd.Flags().String("scope", string(models.ScopeGlobal), "global|friends")
}

func init() {
	rootCmd.AddCommand(leaderboardCmd, positionCmd)

	addFilterFlags(leaderboardCmd)
	leaderboardCmd.Flags().Int("limit", 0, "maximum entries (default from LEADERBOARD_DEFAULT_LIMIT)")
	leaderboardCmd.Flags().String("user", "", "requesting user id, required for friends scope")

	addFilterFlags(positionCmd)
}
