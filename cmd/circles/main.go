package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/circles/internal/config"
	"github.com/san-kum/circles/internal/export"
	"github.com/san-kum/circles/internal/geom"
	"github.com/san-kum/circles/internal/logging"
	"github.com/san-kum/circles/internal/metrics"
	"github.com/san-kum/circles/internal/scene"
	"github.com/san-kum/circles/internal/storage"
	"github.com/san-kum/circles/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	name       string
	pairA      string
	pairB      string
	frameIdx   int
	trackBody  string
	svgSize    int
	themeName  string

	logger = zap.NewNop()
)

// main registers the commands and runs the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "circles",
		Short:         "circle collision scenarios",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".circles", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	checkCmd := &cobra.Command{
		Use:   "check x1 y1 r1 x2 y2 r2",
		Short: "check two circles for collision",
		Args:  cobra.ExactArgs(6),
		RunE:  checkPair,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and save it",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&name, "name", "", "override scenario name")

	runAllCmd := &cobra.Command{
		Use:   "run-all [config...]",
		Short: "run several scenarios concurrently (all presets when none given)",
		RunE:  runAll,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot pair distance against the collision band",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pairA, "a", "", "first body (default: first pair)")
	plotCmd.Flags().StringVar(&pairB, "b", "", "second body")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run contacts to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one frame (or a body track) to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (default: last)")
	exportSVGCmd.Flags().StringVar(&trackBody, "track", "", "draw this body's path instead of a frame")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 400, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "explore a scenario interactively",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", "cyberpunk", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	rootCmd.AddCommand(checkCmd, runCmd, runAllCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
}

// loadConfig resolves --preset and --config. A config file overrides the
// preset's name and bodies when both are given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = fileCfg
		} else {
			cfg.Name = fileCfg.Name
			if len(fileCfg.Bodies) > 0 {
				cfg.Bodies = fileCfg.Bodies
			}
			if len(fileCfg.Steps) > 0 {
				cfg.Steps = fileCfg.Steps
			}
			if fileCfg.Sweep != nil {
				cfg.Sweep = fileCfg.Sweep
			}
		}
	}
	if cfg == nil {
		return nil, errors.New("either --config or --preset is required")
	}
	if cmd.Flags().Lookup("name") != nil && cmd.Flags().Changed("name") {
		cfg.Name = name
	}
	return cfg, nil
}

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(v), nil
}

func checkPair(cmd *cobra.Command, args []string) error {
	vals := make([]float32, len(args))
	for i, a := range args {
		v, err := parseFloat32(a)
		if err != nil {
			return err
		}
		vals[i] = v
	}

	c1, err := geom.New(vals[0], vals[1], vals[2])
	if err != nil {
		return fmt.Errorf("first circle: %w", err)
	}
	c2, err := geom.New(vals[3], vals[4], vals[5])
	if err != nil {
		return fmt.Errorf("second circle: %w", err)
	}

	lo, hi := c1.Band(c2)
	fmt.Printf("%s\n%s\n\n", c1, c2)
	fmt.Printf("collides:    %v\n", c1.Collides(c2))
	fmt.Printf("relation:    %s\n", c1.Relation(c2))
	fmt.Printf("distance^2:  %.6g\n", c1.DistanceSquared(c2))
	fmt.Printf("band:        [%.6g, %.6g]\n", lo, hi)
	fmt.Printf("clearance:   %.6g\n", c1.Clearance(c2))
	return nil
}

func newRunner() *scene.Runner {
	r := scene.New(logger)
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}
	return r
}

func save(st *storage.Store, cfg *config.Config, res *scene.Result) (string, error) {
	fp, err := cfg.Fingerprint()
	if err != nil {
		return "", err
	}
	meta := storage.RunMetadata{
		Scene:       cfg.Name,
		Fingerprint: strconv.FormatUint(fp, 16),
		Bodies:      len(cfg.Bodies),
		Steps:       res.StepsTaken,
	}
	return st.Save(meta, res)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scene()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s (%d bodies, %d steps)...\n", sc.Name, len(sc.Bodies), len(sc.Steps))
	start := time.Now()

	res, err := newRunner().Run(context.Background(), sc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := save(st, cfg, res)
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("run", runID), zap.Duration("elapsed", elapsed))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(res.Frames))

	last := res.Frames[len(res.Frames)-1]
	fmt.Println("\nfinal contacts:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  A\tB\tRELATION\tCLEARANCE")
	for _, c := range last.Contacts {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%.4f\n", c.A, c.B, c.Relation, metrics.Clearance(c))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	for _, m := range metrics.Defaults() {
		fmt.Printf("  %s: %.4f\n", m.Name(), res.Metrics[m.Name()])
	}
	return nil
}

func runAll(cmd *cobra.Command, args []string) error {
	var cfgs []*config.Config
	if len(args) == 0 {
		for _, p := range config.ListPresets() {
			cfgs = append(cfgs, config.GetPreset(p))
		}
	}
	for _, path := range args {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfgs = append(cfgs, cfg)
	}

	scenes := make([]scene.Scene, len(cfgs))
	for i, cfg := range cfgs {
		sc, err := cfg.Scene()
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.Name, err)
		}
		scenes[i] = sc
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	results, err := scene.RunAll(context.Background(), newRunner, scenes)
	if err != nil {
		return err
	}
	logger.Info("batch finished", zap.Int("scenes", len(scenes)), zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tRUN\tFRAMES\tCONTACT_FRAMES\tEVENTS\tMIN_CLEARANCE")
	for i, res := range results {
		runID, err := save(st, cfgs[i], res)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.0f\t%.4f\n",
			scenes[i].Name, runID, len(res.Frames),
			res.Metrics["contact_frames"], res.Metrics["contact_events"], res.Metrics["min_clearance"])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tSTEPS\tFINGERPRINT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Fingerprint,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	contacts, err := st.LoadContacts(runID)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no pairs to plot")
	}

	a, b := pairA, pairB
	if a == "" || b == "" {
		a, b = contacts[0].A, contacts[0].B
	}

	var dist, lo, hi []float64
	hits := 0
	for _, c := range contacts {
		if !((c.A == a && c.B == b) || (c.A == b && c.B == a)) {
			continue
		}
		dist = append(dist, c.DistanceSq)
		lo = append(lo, c.Lo)
		hi = append(hi, c.Hi)
		if c.Colliding() {
			hits++
		}
	}
	if len(dist) == 0 {
		return fmt.Errorf("no pair %s-%s in run %s", a, b, runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("pair: %s-%s, frames: %d, colliding: %d\n\n", a, b, len(dist), hits)

	if len(dist) < 2 {
		fmt.Printf("distance^2 %.4f, band [%.4f, %.4f]\n", dist[0], lo[0], hi[0])
		return nil
	}

	graph := asciigraph.PlotMany([][]float64{dist, lo, hi},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("distance^2 with band bounds (r1-r2)^2 and (r1+r2)^2"),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	contacts, err := st.LoadContacts(runID)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"frame", "a", "b", "relation", "colliding", "distance_sq", "lo", "hi", "clearance"}); err != nil {
		return err
	}
	for _, c := range contacts {
		row := []string{
			strconv.Itoa(c.Frame),
			c.A,
			c.B,
			c.Relation.String(),
			strconv.FormatBool(c.Colliding()),
			strconv.FormatFloat(c.DistanceSq, 'f', 6, 64),
			strconv.FormatFloat(c.Lo, 'f', 6, 64),
			strconv.FormatFloat(c.Hi, 'f', 6, 64),
			strconv.FormatFloat(metrics.Clearance(c.Contact), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	var svg string
	if trackBody != "" {
		svg = export.TrackToSVG(frames, trackBody, svgSize)
		if svg == "" {
			return fmt.Errorf("body %q has fewer than two positions", trackBody)
		}
	} else {
		idx := frameIdx
		if idx < 0 {
			idx = len(frames) - 1
		}
		if idx >= len(frames) {
			return fmt.Errorf("frame %d out of range (run has %d)", idx, len(frames))
		}
		svg = export.FrameToSVG(frames[idx], svgSize)
	}
	fmt.Println(strings.TrimSpace(svg))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.Scene()
	if err != nil {
		return err
	}

	m, err := viz.NewModel(sc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m.WithTheme(themeName))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
