package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/seesaw/internal/automation"
	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/ensemble"
	"github.com/san-kum/seesaw/internal/export"
	"github.com/san-kum/seesaw/internal/gui"
	"github.com/san-kum/seesaw/internal/metrics"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
	"github.com/san-kum/seesaw/internal/transport/ws"
	"github.com/san-kum/seesaw/internal/tui"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, true)
	if err != nil {
		return err
	}
	runErr := tui.Run(s.drv, tui.Options{
		StageWidth:  cfg.Stage.Width,
		StageHeight: cfg.Stage.Height,
		FrameRate:   cfg.Driver.FrameRate,
		Theme:       theme,
	})
	return errors.Join(runErr, s.Close())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	gui.Run(s.drv, gui.Options{
		StageWidth:  cfg.Stage.Width,
		StageHeight: cfg.Stage.Height,
		FrameRate:   cfg.Driver.FrameRate,
	})
	return s.Close()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmds := make(chan driver.Command, 64)
	hub := ws.NewHub(cmds, s.logger)
	s.drv.AddRenderer(hub)
	if err := hub.Render(s.drv.Snapshot()); err != nil {
		s.logger.Printf("initial snapshot: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.WSHandler())
	mux.Handle("/state", hub.StateHandler())
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan error, 1)
	go func() { done <- s.drv.Run(ctx, cmds) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("listening on %s", cfg.Server.Addr)
	serveErr := srv.ListenAndServe()
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	stop()

	runErr := <-done
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return errors.Join(serveErr, runErr, closeSessionResources(s))
}

// closeSessionResources releases the store and journal after the driver
// loop already saved the final plank.
func closeSessionResources(s *session) error {
	var err error
	if s.journal != nil {
		err = s.journal.Close()
	}
	return errors.Join(err, s.store.Close())
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	if fresh {
		s.drv.Reset()
	}

	collector := metrics.Default()
	s.drv.State().AddObserver(collector)

	p := s.drv.State().Params()
	rs := cfg.Driver.Seed
	if rs == 0 {
		rs = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rs + 1))
	tilts := []float64{s.drv.State().VisualAngle()}

	for i := 0; i < count; i++ {
		offset := dropX
		if !cmd.Flags().Changed("x") {
			offset = ensemble.Offset(rng, p)
		}
		w := s.drv.Spawn(p.CenterX + offset)
		landed, steps := s.drv.RunUntilIdle(dt, 100000)
		for _, ev := range landed {
			fmt.Printf("%2d  %2dkg  %-5s  x=%7.1fpx  tilt=%6.1f°  (%d steps)\n",
				i+1, w, seesaw.Side(ev.X), ev.X, s.drv.State().VisualAngle(), steps)
		}
		tilts = append(tilts, s.drv.State().VisualAngle())
	}

	if len(tilts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(tilts,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("tilt after each drop (°)")))
	}

	fmt.Println()
	r := s.drv.Snapshot().Readout()
	fmt.Printf("%s  %s  %s\n\n", r.Left, r.Right, r.Tilt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	values := collector.Values()
	for _, name := range collector.Names() {
		fmt.Fprintf(w, "%s\t%.2f\n", name, values[name])
	}
	w.Flush()

	return s.Close()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	defer closeSessionResources(s)

	snap := s.drv.Snapshot()
	p := s.drv.State().Params()
	if len(snap.Resting) == 0 {
		fmt.Println("plank is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSIDE\tX\tWEIGHT\tSIZE\tCOLOR")
	for i, it := range snap.Resting {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%dkg\t%s\t%s\n",
			i+1, seesaw.Side(it.X), it.X, it.Weight, p.SizeClass(it.Weight), p.Color(it.Color))
	}
	w.Flush()

	r := snap.Readout()
	fmt.Printf("\n%s  %s  %s", r.Left, r.Right, r.Tilt)
	if snap.Saturated() {
		fmt.Printf("  (raw %.1f°)", snap.RawAngle)
	}
	fmt.Println()
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if scenario.Name != "" {
		fmt.Printf("%s: %s\n\n", scenario.Name, scenario.Description)
	}

	if sweepParam != "" {
		results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
			Param:    sweepParam,
			Min:      sweepMin,
			Max:      sweepMax,
			NumSteps: sweepSteps,
		}, scenario, cfg.Params(), cfg.Driver.Seed)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tTILT\tRAW\tRESTING\n", sweepParam)
		tilts := make([]float64, len(results))
		for i, r := range results {
			fmt.Fprintf(w, "%.3f\t%.1f°\t%.1f°\t%d\n", r.ParamValue, r.Tilt, r.RawTilt, r.Resting)
			tilts[i] = r.Tilt
		}
		w.Flush()
		fmt.Println()
		fmt.Println(asciigraph.Plot(tilts,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("tilt vs %s", sweepParam))))
		return nil
	}

	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	if fresh {
		s.drv.Reset()
	}
	results, err := automation.RunScenario(ctx, scenario, s.drv)
	if err != nil {
		s.Close()
		return err
	}
	for _, r := range results {
		for _, ev := range r.Landed {
			fmt.Printf("step %2d  %2dkg landed %s at %.0fpx\n", r.Step, ev.Weight, seesaw.Side(ev.X), math.Abs(ev.X))
		}
	}
	r := s.drv.Snapshot().Readout()
	fmt.Printf("\n%s  %s  %s\n", r.Left, r.Right, r.Tilt)
	return s.Close()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	start := cfg.Driver.Seed
	if start == 0 {
		start = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	began := time.Now()
	results, err := ensemble.New(ensemble.Config{
		Params: cfg.Params(),
		Drops:  drops,
		Dt:     dt,
	}, runs, start).Run(ctx)
	if err != nil {
		return err
	}
	sum := ensemble.Summarize(results)

	fmt.Printf("%d runs x %d drops in %v\n\n", sum.Runs, drops, time.Since(began).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEAN\tMEAN |TILT|\tMIN\tMAX\tLEFT\tRIGHT\tSATURATED")
	fmt.Fprintf(w, "%.1f°\t%.1f°\t%.1f°\t%.1f°\t%d\t%d\t%d\n",
		sum.MeanTilt, sum.MeanAbs, sum.MinTilt, sum.MaxTilt, sum.Left, sum.Right, sum.Saturated)
	w.Flush()

	limit := cfg.Physics.MaxAngle
	hist := ensemble.Histogram(results, limit, 12)
	counts := make([]float64, len(hist))
	for i, n := range hist {
		counts[i] = float64(n)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("final tilt histogram, %.0f° to %.0f°", -limit, limit))))

	if jsonOut != "" {
		report := struct {
			Summary ensemble.Summary   `json:"summary"`
			Results []*ensemble.Result `json:"results"`
		}{sum, results}
		if err := export.ExportJSON(jsonOut, report); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", jsonOut)
	}
	if svgOut != "" {
		doc := export.TiltToSVG(results[0].Tilts, 800, 240, limit, cfg.Palette[0])
		if err := export.WriteFile(svgOut, []byte(doc)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if svgOut == "" && jsonOut == "" {
		return errors.New("nothing to export: pass --svg or --json")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	defer closeSessionResources(s)

	snap := s.drv.Snapshot()
	if svgOut != "" {
		if err := export.WriteFile(svgOut, []byte(export.SnapshotToSVG(snap, cfg.Stage.Width, cfg.Stage.Height))); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, ws.NewSnapshotMsg(snap)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	n := s.drv.State().RestingCount()
	s.drv.Reset()
	fmt.Printf("cleared %d items\n", n)
	return s.Close()
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	entries, err := storage.ReadJournal(storage.JournalDir(cfg.Storage.DataDir))
	if err != nil {
		return err
	}
	if csvOut {
		return storage.ExportCSV(os.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Println("journal is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tX\tWEIGHT\tTILT")
	tilts := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.Kind == "reset" {
			fmt.Fprintf(w, "%s\treset\t\t\t%.1f\n", e.Time.Local().Format(time.DateTime), e.TiltAfter)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%dkg\t%.1f\n", e.Time.Local().Format(time.DateTime), e.Kind, e.X, e.W, e.TiltAfter)
		}
		tilts = append(tilts, seesaw.ClampAngle(e.TiltAfter, cfg.Physics.MaxAngle))
	}
	w.Flush()

	if len(tilts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(tilts,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("tilt after each entry (°)")))
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	if writePath != "" {
		return config.Save(writePath, cfg)
	}
	return nil
}
