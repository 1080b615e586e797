package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/kawaiibooth/internal/pipeline"
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/AnyUserName/kawaiibooth/internal/template"
	"github.com/spf13/cobra"
)

var (
	renderAnimate bool
	renderNoStill bool
	renderRecord  bool
	renderScale   float64
	renderQuality int
)

var renderCmd = &cobra.Command{
	Use:   "render <session.json|dir>...",
	Short: "Export stills and animations for saved sessions",
	Long: `Loads every session file (directories are searched for session.json),
renders the collage and writes the artifacts into <out>/<session>/.

Stills are named kawaiibooth-<unix-ms>.<ext>, animations
kawaiibooth-<unix-ms>.gif. Sessions that fail are reported; the command
only fails when every session fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "./booth_out", "output directory")
	renderCmd.Flags().StringP("profile", "p", "still-2x", "still profile")
	renderCmd.Flags().StringP("animation", "a", "loop", "animation profile")
	renderCmd.Flags().BoolVar(&renderAnimate, "animate", false, "also export the looping animation")
	renderCmd.Flags().BoolVar(&renderNoStill, "no-still", false, "skip the still export")
	renderCmd.Flags().IntP("workers", "w", 0, "parallel sessions (0 = NumCPU)")
	renderCmd.Flags().BoolVar(&renderRecord, "record", false, "append export records to each session file")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 0, "still scale (0 = profile default)")
	renderCmd.Flags().IntVarP(&renderQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, args []string) error {
	var still *profile.Still
	if !renderNoStill {
		p := profile.GetStill(cfg.Export.StillProfile)
		if renderScale > 0 {
			p.Scale = renderScale
		}
		if renderQuality > 0 {
			p.Quality = renderQuality
		}
		still = &p
	}
	var anim *profile.Animation
	if renderAnimate {
		p := profile.GetAnimation(cfg.Export.AnimationProfile)
		anim = &p
	}
	return runBatch(args, still, anim, renderRecord)
}

// runBatch drives the pipeline and prints its report.
func runBatch(args []string, still *profile.Still, anim *profile.Animation, record bool) error {
	absOutput, err := filepath.Abs(cfg.Export.OutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.New(pipeline.Config{
		Sessions:     args,
		OutputDir:    absOutput,
		Still:        still,
		Animation:    anim,
		Workers:      cfg.WorkerCount(),
		FrameWorkers: cfg.WorkerCount(),
		Record:       record,
		Templates:    template.Builtin(),
		Renderer:     r,
		Log:          log,
	})
	rep, err := p.Run(ctx)
	if rep != nil {
		printRenderReport(rep, absOutput)
	}
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func printRenderReport(rep *pipeline.Report, outDir string) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              booth render complete               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Printf("  Sessions:    %d (%d failed)\n", rep.Sessions, len(rep.Failures))
	fmt.Printf("  Artifacts:   %d\n", len(rep.Outputs))
	fmt.Printf("  Output size: %s\n", formatBytes(rep.Bytes))
	if rep.StillName != "" {
		fmt.Printf("  Still:       %s\n", rep.StillName)
	}
	if rep.AnimName != "" {
		fmt.Printf("  Animation:   %s\n", rep.AnimName)
	}
	fmt.Printf("  Workers:     %d\n", rep.Workers)
	fmt.Printf("  Time:        %s\n", rep.Elapsed.Round(time.Millisecond))
	fmt.Println()

	if len(rep.Outputs) > 0 {
		outs := append([]pipeline.Output(nil), rep.Outputs...)
		sort.Slice(outs, func(i, j int) bool { return outs[i].Size > outs[j].Size })
		n := min(len(outs), 10)
		fmt.Printf("  Top %d heaviest:\n", n)
		for _, o := range outs[:n] {
			rel, err := filepath.Rel(outDir, o.Path)
			if err != nil {
				rel = o.Path
			}
			dims := fmt.Sprintf("%dx%d", o.Width, o.Height)
			if o.Frames > 1 {
				dims += fmt.Sprintf(" ×%d", o.Frames)
			}
			fmt.Printf("    %-40s %-14s %8s\n", truncPath(rel, 40), dims, formatBytes(o.Size))
		}
		fmt.Println()
	}

	if len(rep.Failures) > 0 {
		fmt.Printf("  Failures (%d):\n", len(rep.Failures))
		for _, f := range rep.Failures {
			fmt.Printf("    ✗ %s: %v\n", truncPath(f.Session, 40), f.Err)
		}
		fmt.Println()
	}

	fmt.Printf("  Encoders:    %s\n", strings.TrimSpace(rep.Encoders))
	fmt.Printf("  Output:      %s\n", outDir)
	fmt.Println()
}
