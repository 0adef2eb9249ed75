// scenecheck validates scene descriptors and dry-runs frames without a GPU.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/scenery/internal/assets"
	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/level"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/internal/viewer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate", "check":
		err = cmdValidate(os.Stdout, args)
	case "frames", "run":
		err = cmdFrames(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenecheck - scene descriptor checker

Usage:
  scenecheck <command> [options] <scene>

Commands:
  validate [-assets DIR] [-v] <scene>      Load the scene headlessly and list its registries
  frames [-n N] [-dt S] [-assets DIR] <scene>  Run N update/draw cycles and report each frame

Examples:
  scenecheck validate levels/room.json
  scenecheck frames -n 3 levels/room.yaml`)
}

// exitCode separates descriptor problems (2) from asset and runtime
// failures (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, level.ErrParse),
		errors.Is(err, level.ErrUnresolvedReference),
		errors.Is(err, level.ErrUnknownCameraType),
		errors.Is(err, level.ErrDuplicateName),
		errors.Is(err, level.ErrLightOverflow):
		return 2
	default:
		return 1
	}
}

// common holds the flags shared by every command.
type common struct {
	assetRoot string
	verbose   bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.assetRoot, "assets", "", "Extra asset search root")
	fs.BoolVar(&c.verbose, "v", false, "Log at debug level")
}

func (c *common) load(scene string) (*level.Level, *renderer.Headless, error) {
	lvl := "warn"
	if c.verbose {
		lvl = "debug"
	}
	if err := logger.Init(lvl, ""); err != nil {
		return nil, nil, err
	}

	var roots []string
	if c.assetRoot != "" {
		roots = append(roots, c.assetRoot)
	}
	roots = append(roots, filepath.Dir(scene))

	backend := renderer.NewHeadless()
	l, err := level.Load(scene, assets.NewManager(roots...), backend, level.DefaultOptions())
	if err != nil {
		return nil, nil, err
	}
	return l, backend, nil
}

func cmdValidate(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scenecheck validate <scene>")
	}
	scene := fs.Arg(0)

	l, backend, err := c.load(scene)
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Fprintf(w, "Scene:   %s\n", scene)
	fmt.Fprintf(w, "Name:    %s\n", l.Name)
	fmt.Fprintf(w, "Camera:  %s (%s)\n", l.ActiveCamera().Name(), l.ActiveCamera().Type())
	fmt.Fprintf(w, "GPU:     %d meshes, %d textures\n", backend.LiveMeshes(), backend.LiveTextures())
	fmt.Fprintln(w)

	section(w, "Meshes", l.Meshes.Names())
	section(w, "Materials", l.Materials.Names())
	section(w, "Textures", l.Textures.Names())
	section(w, "Actors", l.Actors.Names())
	section(w, "Billboards", l.Billboards.Names())
	section(w, "Cameras", l.Cameras.Names())

	lights := []struct {
		kind  lighting.Kind
		names []string
	}{
		{lighting.KindDirectional, l.DirectionalLights.Names()},
		{lighting.KindPoint, l.PointLights.Names()},
		{lighting.KindSpot, l.SpotLights.Names()},
	}
	var overflow []string
	for _, lt := range lights {
		capacity := frame.Capacity(lt.kind)
		fmt.Fprintf(w, "%s lights (%d/%d): %s\n", lt.kind, len(lt.names), capacity, strings.Join(lt.names, ", "))
		if len(lt.names) > capacity {
			overflow = append(overflow, lt.kind.String())
		}
	}

	if len(overflow) > 0 {
		return fmt.Errorf("%w: %s lights exceed frame capacity", level.ErrLightOverflow, strings.Join(overflow, ", "))
	}
	fmt.Fprintln(w, "\nOK")
	return nil
}

func section(w io.Writer, title string, names []string) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(names))
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
}

func cmdFrames(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	var c common
	c.register(fs)
	n := fs.Int("n", 1, "Number of frames")
	dt := fs.Float64("dt", 1.0/60, "Seconds per frame")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scenecheck frames [-n N] <scene>")
	}

	l, backend, err := c.load(fs.Arg(0))
	if err != nil {
		return err
	}
	defer l.Close()

	s, err := viewer.NewSession(l, nil, nil)
	if err != nil {
		return err
	}

	for i := 0; i < *n; i++ {
		if _, err := s.Step(float32(*dt), nil); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		f := backend.LastFrame()
		eye := f.EyeWorldPos
		fmt.Fprintf(w, "frame %d: lights d=%d p=%d s=%d, draws=%d, eye=(%.2f, %.2f, %.2f)\n",
			i, f.DirectionalCount, f.PointCount, f.SpotCount, len(backend.Submissions()), eye.X, eye.Y, eye.Z)
	}
	fmt.Fprintf(w, "%d frames, %d bytes per upload\n", s.Frames(), frame.Size)
	return nil
}
