package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/milk9111/shootgame/game"
	"github.com/milk9111/shootgame/physics"
	"github.com/milk9111/shootgame/prefabs"
	"github.com/milk9111/shootgame/scene"
	"github.com/milk9111/shootgame/scores"
	"github.com/milk9111/shootgame/script"
	"github.com/milk9111/shootgame/trace"
	"github.com/spf13/cobra"
)

var (
	frames    int
	tracePath string
	backend   string
	verbose   bool

	dbPath  string
	player  string
	every   float64
	limit   int
	maxPlot int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "physsim",
		Short: "headless physics scenarios and bowling runs",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log world and script output")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override the physics backend (rigid, planar)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a tengo scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runScenario(args[0], frames, tracePath, cmd.OutOrStdout())
			return err
		},
	}
	runCmd.Flags().IntVar(&frames, "frames", 0, "frames to simulate (default: the scenario's own)")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "write a pose trace (.jsonl.zst)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := prefabs.Scenarios()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	bowlCmd := &cobra.Command{
		Use:   "bowl",
		Short: "play one bowling game without a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bowl(every)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d pins down with %d throws (%s)\n", res.Score, res.Pins, res.Throws, res.Backend)
			if dbPath == "" {
				return nil
			}
			store, err := scores.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			res.Player = player
			_, err = store.Record(cmd.Context(), res)
			return err
		},
	}
	bowlCmd.Flags().Float64Var(&every, "every", 3, "seconds between throws")
	bowlCmd.Flags().StringVar(&dbPath, "db", "", "record the result in this sqlite file")
	bowlCmd.Flags().StringVar(&player, "player", "physsim", "player name for the record")

	plotCmd := &cobra.Command{
		Use:   "plot [trace]",
		Short: "plot body heights from a trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotTrace(args[0], maxPlot, cmd.OutOrStdout())
		},
	}
	plotCmd.Flags().IntVar(&maxPlot, "bodies", 4, "plot at most this many moving bodies")

	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "list the best recorded games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScores(cmd.Context(), dbPath, limit, cmd.OutOrStdout())
		},
	}
	scoresCmd.Flags().StringVar(&dbPath, "db", "scores.sqlite", "sqlite file")
	scoresCmd.Flags().IntVar(&limit, "limit", 10, "rows to show")

	rootCmd.AddCommand(runCmd, listCmd, bowlCmd, plotCmd, scoresCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func physicsConfig() (physics.Config, error) {
	cfg, err := prefabs.LoadPhysicsConfig()
	if err != nil {
		return cfg, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	return cfg, nil
}

type runSummary struct {
	Frames int
	Bodies int
	Time   float64
}

func runScenario(name string, n int, tracePath string, out io.Writer) (runSummary, error) {
	var sum runSummary
	r, err := script.Load(name)
	if err != nil {
		return sum, err
	}
	base, err := physicsConfig()
	if err != nil {
		return sum, err
	}
	cfg, err := r.PhysicsConfig(base)
	if err != nil {
		return sum, err
	}
	if backend != "" {
		cfg.Backend = backend
	}

	world := physics.NewPhysicsWorld(cfg)
	if err := world.Init(); err != nil {
		return sum, err
	}
	defer world.Destroy()

	var tw *trace.Writer
	if tracePath != "" {
		tw, err = trace.Create(tracePath)
		if err != nil {
			return sum, err
		}
		defer tw.Close()
	}

	root := scene.New()
	if err := r.Setup(world, root); err != nil {
		return sum, err
	}
	if n <= 0 {
		n = r.Frames()
	}
	dt := world.Config().FixedTimeStep
	for i := 1; i <= n; i++ {
		if err := r.Frame(i); err != nil {
			return sum, err
		}
		world.Step(dt)
		world.SyncTransforms()
		if tw != nil {
			if err := tw.WriteFrame(trace.Capture(world, i)); err != nil {
				return sum, fmt.Errorf("trace: %w", err)
			}
		}
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return sum, err
		}
	}

	sum = runSummary{Frames: n, Bodies: world.BodyCount(), Time: world.SimulatedTime()}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "scenario %s on %s: %d frames, %.2fs simulated, %d bodies\n", name, cfg.Backend, sum.Frames, sum.Time, sum.Bodies)
	fmt.Fprintln(w, "HANDLE\tSTATIC\tX\tY\tZ")
	for _, h := range world.Handles() {
		p, _ := world.Position(h)
		fmt.Fprintf(w, "%s\t%t\t%.3f\t%.3f\t%.3f\n", h, world.IsStatic(h), p[0], p[1], p[2])
	}
	return sum, w.Flush()
}

// bowl plays a full game, throwing a ball every interval seconds.
func bowl(interval float64) (scores.Result, error) {
	var res scores.Result
	spec, err := prefabs.LoadBowlingSpec()
	if err != nil {
		return res, err
	}
	cfg, err := physicsConfig()
	if err != nil {
		return res, err
	}
	world := physics.NewPhysicsWorld(cfg)
	if err := world.Init(); err != nil {
		return res, err
	}
	defer world.Destroy()

	s := game.NewSession(world, scene.New(), game.NewCamera(spec), spec)
	if err := s.Start(); err != nil {
		return res, err
	}
	pins := len(s.Pins())

	dt := cfg.FixedTimeStep
	next := 0.0
	elapsed := 0.0
	for s.State() == game.StateRunning {
		if interval > 0 && elapsed >= next {
			if _, err := s.Throw(); err != nil {
				return res, err
			}
			next += interval
		}
		s.Update(dt)
		elapsed += dt
	}

	return scores.Result{
		Backend:  cfg.Backend,
		Score:    s.Score(),
		Pins:     pins,
		Throws:   s.Throws(),
		Duration: spec.Duration,
	}, nil
}

func plotTrace(path string, maxBodies int, out io.Writer) error {
	r, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	frames, err := trace.ReadAll(r)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		fmt.Fprintln(out, "empty trace")
		return nil
	}

	static := make(map[physics.Handle]bool)
	for _, b := range frames[0].Bodies {
		static[b.Handle] = b.Static
	}
	order, heights := trace.Heights(frames)
	plotted := 0
	for _, h := range order {
		if static[h] || len(heights[h]) < 2 {
			continue
		}
		if maxBodies > 0 && plotted >= maxBodies {
			break
		}
		graph := asciigraph.Plot(heights[h],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %s height", h)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
		plotted++
	}
	if plotted == 0 {
		fmt.Fprintln(out, "no moving bodies in trace")
	}
	return nil
}

func listScores(ctx context.Context, path string, n int, out io.Writer) error {
	store, err := scores.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	best, err := store.Best(ctx, n)
	if err != nil {
		return err
	}
	if len(best) == 0 {
		fmt.Fprintln(out, "no games recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tSCORE\tPINS\tTHROWS\tBACKEND\tPLAYED")
	for _, g := range best {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
			g.Player,
			g.Score,
			g.Pins,
			g.Throws,
			g.Backend,
			g.PlayedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
