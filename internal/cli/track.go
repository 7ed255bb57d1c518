package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack-campus/ecotrack/internal/app/metrics"
	"github.com/ecotrack-campus/ecotrack/internal/app/session"
	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Tracker CLI ────────────────────────────────────────────────────────────
// One-off views over a freshly seeded session. Nothing is kept between runs.

func init() {
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(leaderboardCmd)

	calcCmd.Flags().StringP("mode", "m", string(domain.ModeCar), "Transport mode (car, bus, train, bike, walk)")
	calcCmd.Flags().StringP("distance", "d", "", "Distance travelled in km")
	calcCmd.Flags().StringP("electricity", "e", "", "Electricity used in kWh")

	leaderboardCmd.Flags().Int("points", -1, "Your EcoPoints (default: the configured starting balance)")
}

// ─── calc ───────────────────────────────────────────────────────────────────

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Estimate one day's carbon footprint",
	Long: `Compute transport and electricity emissions for one day. Values that
are not numbers count as zero, exactly as in the dashboard form.`,
	Example: `  ecotrack calc --mode car --distance 10 --electricity 5`,
	RunE:    runCalc,
}

func runCalc(cmd *cobra.Command, args []string) error {
	modeRaw, _ := cmd.Flags().GetString("mode")
	distance, _ := cmd.Flags().GetString("distance")
	electricity, _ := cmd.Flags().GetString("electricity")

	mode := domain.TransportMode(modeRaw)
	if !mode.Valid() {
		logger.Warn().Str("mode", modeRaw).Msg("unknown transport mode, counting transport as zero")
	}

	date := time.Now().UTC().Format(domain.DateLayout)
	entry := metrics.ComputeCarbonEmission(mode, distance, electricity, "calc", date)

	fmt.Fprint(cmd.OutOrStdout(), RenderEntry(mode, entry, metrics.Equivalencies(entry.TotalEmission)))
	return nil
}

// ─── dashboard ──────────────────────────────────────────────────────────────

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the seeded campus dashboard",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sc := cfg.SessionManagerConfig()
	sc.LoginDelay = 0
	mgr := session.NewManager(sc, cfg.StoreFactory(), session.WithLogger(logger))
	defer mgr.Close()

	s, err := mgr.Create(ctx)
	if err != nil {
		return err
	}
	d, err := s.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), RenderDashboard(d))
	return nil
}

// ─── leaderboard ────────────────────────────────────────────────────────────

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show where you rank among campus peers",
	RunE:  runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	points, _ := cmd.Flags().GetInt("points")
	if points < 0 {
		points = cfg.Session.StartingPoints
	}

	board := metrics.Leaderboard(cfg.Leaderboard.Peers, points)
	fmt.Fprint(cmd.OutOrStdout(), RenderLeaderboard(board))
	return nil
}
