// clipstat - geometry stage statistics for a mesh
// Runs a GLB model (or a built-in cube) through transformation, clipping
// and viewport mapping and reports what survives.
//
// With -sweep N, user plane 0 slides across the model on a spring for N
// frames and the survivors are printed per frame.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/glclip/pkg/math3d"
	"github.com/taigrr/glclip/pkg/models"
	"github.com/taigrr/glclip/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to JSON scene config")
	drawLines  = flag.Bool("lines", false, "Assemble mesh edges as lines instead of faces")
	sweep      = flag.Int("sweep", 0, "Animate user plane 0 for N frames")
	targetFPS  = flag.Int("fps", 60, "Sweep frame rate")
	verbose    = flag.Bool("v", false, "Log per-primitive clipper events")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "clipstat - geometry stage statistics\n\n")
		fmt.Fprintf(os.Stderr, "Usage: clipstat [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	if err := run(os.Stdout, flag.Arg(0)); err != nil {
		logger.Error("clipstat failed", "err", err)
		os.Exit(1)
	}
}

func run(w io.Writer, modelPath string) error {
	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}

	mesh := models.Cube(2)
	if modelPath != "" {
		var err error
		if mesh, err = models.LoadGLB(modelPath); err != nil {
			return fmt.Errorf("load model: %w", err)
		}
	}
	slog.Info("model loaded", "name", mesh.Name, "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())

	transform := cfg.NewTransform()
	ctx, err := cfg.NewContext(transform)
	if err != nil {
		return err
	}

	sink := &counter{}
	a := render.NewAssembler(transform, ctx, render.NewViewport(cfg.Width, cfg.Height), sink)
	s := newScene(mesh, a, sink)

	if *sweep > 0 {
		return runSweep(w, cfg, s, *sweep, *targetFPS)
	}

	st, err := s.draw(*drawLines)
	if err != nil {
		return err
	}
	printStats(w, mesh, st)
	return nil
}

// runSweep moves user plane 0 from Sweep.From toward Sweep.To on a
// harmonica spring, one draw per frame.
func runSweep(w io.Writer, cfg *Config, s *scene, frames, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("fps %d must be positive", fps)
	}
	spring := harmonica.NewSpring(harmonica.FPS(fps), cfg.Sweep.Frequency, cfg.Sweep.Damping)
	ctx := s.assembler.Context
	normal := v3(cfg.Sweep.Normal)
	offset, velocity := cfg.Sweep.From, 0.0

	if err := ctx.EnablePlane(0, true); err != nil {
		return err
	}

	fmt.Fprintf(w, "%-6s %10s %8s %8s %8s %8s\n", "frame", "offset", "drawn", "clipped", "culled", "verts")
	for frame := 0; frame < frames; frame++ {
		plane := math3d.V4FromV3(normal, offset)
		if err := ctx.SetPlane(0, plane, s.assembler.Transform.ModelView()); err != nil {
			return err
		}

		st, err := s.draw(*drawLines)
		if err != nil {
			return err
		}
		drawn := st.Drawn.Polygons + st.Drawn.Lines
		fmt.Fprintf(w, "%-6d %10.4f %8d %8d %8d %8d\n",
			frame, offset, drawn, st.Assembly.Clipped, st.Assembly.Culled, st.Drawn.Vertices)

		offset, velocity = spring.Update(offset, velocity, cfg.Sweep.To)
	}
	return nil
}

func printStats(w io.Writer, mesh *models.Mesh, st frameStats) {
	fmt.Fprintf(w, "model        %s (%d vertices, %d triangles)\n", mesh.Name, mesh.VertexCount(), mesh.TriangleCount())
	if st.Culled {
		fmt.Fprintln(w, "frustum      mesh bounds outside the view, nothing assembled")
		return
	}
	fmt.Fprintf(w, "assembly     accepted %d, rejected %d, clipped %d, culled %d\n",
		st.Assembly.Accepted, st.Assembly.Rejected, st.Assembly.Clipped, st.Assembly.Culled)
	fmt.Fprintf(w, "clipper      lines %d (rejected %d), polygons %d (rejected %d, non-convex %d)\n",
		st.Clipper.Lines, st.Clipper.LinesRejected, st.Clipper.Polygons, st.Clipper.PolygonsRejected, st.Clipper.NonConvex)
	fmt.Fprintf(w, "drawn        points %d, lines %d, polygons %d, polygon vertices %d\n",
		st.Drawn.Points, st.Drawn.Lines, st.Drawn.Polygons, st.Drawn.Vertices)
}
