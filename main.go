package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/df07/go-raycast/pkg/config"
	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/loaders"
	"github.com/df07/go-raycast/pkg/logging"
	"github.com/df07/go-raycast/pkg/renderer"
)

const (
	version      = "0.1.0"
	maxGridCells = 1 << 20
)

// app holds state shared by all commands once flags are parsed
type app struct {
	configFile string
	config     *config.Config
	logger     zerolog.Logger
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "raycast",
		Short: "Ray-sphere intersection and 4x4 transform toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(logOutput, cfg.Log.Level)
			if err != nil {
				return err
			}
			a.config = cfg
			a.logger = logger
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is $HOME/.raycast/config.yaml)")

	rootCmd.AddCommand(
		raycastCmd(a),
		matrixCmd(a),
		scenesCmd(a),
		configCmd(a),
		versionCmd(),
	)

	return rootCmd
}

func raycastCmd(a *app) *cobra.Command {
	var (
		sceneFile string
		workers   int
		rayFlags  []string
		grid      string
	)

	cmd := &cobra.Command{
		Use:   "raycast",
		Short: "Cast rays against the spheres of a scene file",
		Long: `Cast the rays of a scene file, plus any given with --ray, and print the
nearest hit of each. With --grid WxH the scene camera casts one ray per
grid cell instead and a hit map is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := logging.Adapter{Logger: a.logger}

			spec, err := loaders.ReadSceneFile(sceneFile)
			if err != nil {
				return err
			}
			sc, err := loaders.BuildScene(spec, diagnostics)
			if err != nil {
				return fmt.Errorf("%s: %w", sceneFile, err)
			}

			var gridWidth, gridHeight int
			if grid != "" {
				if gridWidth, gridHeight, err = parseGridFlag(grid); err != nil {
					return err
				}
				if len(rayFlags) > 0 {
					return errors.New("--ray cannot be combined with --grid")
				}
				if spec.Camera == nil {
					diagnostics.Printf("scene has no camera, using the default camera\n")
				}
				cameraConfig, err := loaders.CameraConfig(spec.Camera, float64(gridWidth)/float64(gridHeight))
				if err != nil {
					return err
				}
				camera, err := renderer.NewCamera(cameraConfig)
				if err != nil {
					return err
				}
				sc.Rays = camera.GridRays(gridWidth, gridHeight)
			}

			for _, value := range rayFlags {
				ray, err := parseRayFlag(value)
				if err != nil {
					return err
				}
				sc.Rays = append(sc.Rays, ray)
			}
			if len(sc.Rays) == 0 {
				return errors.New("no rays to cast: add rays to the scene file or pass --ray or --grid")
			}

			if cmd.Flags().Changed("workers") {
				if workers < 0 {
					return fmt.Errorf("workers cannot be negative")
				}
				a.config.Batch.Workers = workers
			}

			a.logger.Info().
				Str("scene", sc.Name).
				Int("spheres", sc.GetPrimitiveCount()).
				Int("rays", len(sc.Rays)).
				Msg("Loaded scene")

			br := renderer.NewBatchRaycaster(sc, renderer.BatchConfig{
				NumWorkers: a.config.Batch.Workers,
				QueueSize:  a.config.Batch.QueueSize,
			}, diagnostics)
			results, err := br.Run(cmd.Context(), sc.Rays)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if grid != "" {
				printHitMap(out, results, gridWidth)
			} else {
				printResults(out, results, a.config.Output.Precision)
			}
			printStats(out, renderer.ComputeStats(results), a.config.Output.Precision)
			return nil
		},
	}

	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (.yaml)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers (0 = one per CPU)")
	cmd.Flags().StringArrayVar(&rayFlags, "ray", nil, "extra ray as ox,oy,oz,dx,dy,dz (repeatable)")
	cmd.Flags().StringVar(&grid, "grid", "", "cast camera rays through a WxH grid, e.g. 40x20")
	if err := cmd.MarkFlagRequired("scene"); err != nil {
		panic(err) // only fails when the flag is not defined
	}

	return cmd
}

func scenesCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the scene files in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.config.Scenes.Dir
			}
			scenes, err := loaders.ListScenes(dir, logging.Adapter{Logger: a.logger})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scenes) == 0 {
				fmt.Fprintf(out, "No scenes found in %s\n", dir)
				return nil
			}
			for _, info := range scenes {
				fmt.Fprintf(out, "%-20s %-28s spheres: %d, rays: %d\n", info.ID, info.Name, info.Spheres, info.Rays)
				if info.Description != "" {
					fmt.Fprintf(out, "%-20s %s\n", "", info.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to scan (default from config scenes.dir)")
	return cmd
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				homeDir, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to find home directory: %w", err)
				}
				path = filepath.Join(homeDir, ".raycast", "config.yaml")
			}
			if err := config.Save(a.config, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "file to write (default $HOME/.raycast/config.yaml)")

	cmd.AddCommand(initCmd)
	return cmd
}

func matrixCmd(a *app) *cobra.Command {
	var (
		translate, rotate, scale string
		inverse, transpose       bool
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Build a translate-rotate-scale matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec loaders.TransformSpec
			var err error
			if spec.Translate, err = parseVectorFlag("translate", translate); err != nil {
				return err
			}
			if spec.Rotate, err = parseVectorFlag("rotate", rotate); err != nil {
				return err
			}
			if spec.Scale, err = parseVectorFlag("scale", scale); err != nil {
				return err
			}

			m, err := spec.Matrix()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			precision := a.config.Output.Precision
			fmt.Fprintln(out, "Matrix:")
			printMatrix(out, m, precision)
			fmt.Fprintf(out, "Determinant: %.*f\n", precision, m.Determinant())

			if inverse {
				inv, err := m.Inverse()
				if errors.Is(err, core.ErrSingularMatrix) {
					a.logger.Warn().Msg("matrix is singular, showing identity as inverse")
				}
				fmt.Fprintln(out, "Inverse:")
				printMatrix(out, inv, precision)
			}
			if transpose {
				fmt.Fprintln(out, "Transpose:")
				printMatrix(out, m.Transpose(), precision)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&translate, "translate", "", "translation as x,y,z")
	cmd.Flags().StringVar(&rotate, "rotate", "", "rotation in degrees as x,y,z (applied X, then Y, then Z)")
	cmd.Flags().StringVar(&scale, "scale", "", "scale as x,y,z")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "also print the inverse")
	cmd.Flags().BoolVar(&transpose, "transpose", false, "also print the transpose")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skip config loading
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "raycast version %s\n", version)
		},
	}
}

// parseFloats parses a comma-separated list of exactly n numbers
func parseFloats(value string, n int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", n, len(parts))
	}

	values := make([]float64, n)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", part, err)
		}
		values[i] = f
	}
	return values, nil
}

// parseVec3 parses "x,y,z"
func parseVec3(value string) (core.Vec3, error) {
	v, err := parseFloats(value, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// parseVectorFlag returns nil for an unset flag so the transform part is skipped
func parseVectorFlag(name, value string) (loaders.Vector, error) {
	if value == "" {
		return nil, nil
	}
	v, err := parseVec3(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return loaders.Vector{v.X, v.Y, v.Z}, nil
}

// parseGridFlag parses "WxH"
func parseGridFlag(value string) (int, int, error) {
	parts := strings.Split(strings.ToLower(value), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("--grid: expected WxH, got %q", value)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("--grid: invalid width: %w", err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("--grid: invalid height: %w", err)
	}
	if width < 1 || height < 1 || width*height > maxGridCells {
		return 0, 0, fmt.Errorf("--grid: size must be at least 1x1 and at most %d cells", maxGridCells)
	}
	return width, height, nil
}

// parseRayFlag parses "ox,oy,oz,dx,dy,dz"
func parseRayFlag(value string) (core.Ray, error) {
	v, err := parseFloats(value, 6)
	if err != nil {
		return core.Ray{}, fmt.Errorf("--ray: %w", err)
	}
	return core.NewRay(core.NewVec3(v[0], v[1], v[2]), core.NewVec3(v[3], v[4], v[5])), nil
}

func formatVec3(v core.Vec3, precision int) string {
	return fmt.Sprintf("(%.*f, %.*f, %.*f)", precision, v.X, precision, v.Y, precision, v.Z)
}

func printResults(w io.Writer, results []renderer.RayResult, precision int) {
	for i, result := range results {
		if !result.OK {
			fmt.Fprintf(w, "ray %d: miss\n", i)
			continue
		}
		fmt.Fprintf(w, "ray %d: hit shape %d at %s normal %s distance %.*f\n",
			i, result.Hit.ShapeIndex,
			formatVec3(result.Hit.Point, precision),
			formatVec3(result.Hit.Normal, precision),
			precision, result.Hit.Distance)
	}
}

func printStats(w io.Writer, stats renderer.Stats, precision int) {
	fmt.Fprintf(w, "Rays: %d, hits: %d, misses: %d (hit ratio %.*f)\n",
		stats.TotalRays, stats.Hits, stats.Misses, precision, stats.HitRatio)
	if stats.Hits > 0 {
		fmt.Fprintf(w, "Distance: min %.*f, max %.*f, mean %.*f, stddev %.*f\n",
			precision, stats.MinDistance, precision, stats.MaxDistance,
			precision, stats.MeanDistance, precision, stats.StdDevDistance)
	}
}

// printHitMap draws one character per grid cell: the digit of the shape
// that was hit, '#' for shapes past 9, '.' for a miss
func printHitMap(w io.Writer, results []renderer.RayResult, width int) {
	var line strings.Builder
	for i, result := range results {
		switch {
		case !result.OK:
			line.WriteByte('.')
		case result.Hit.ShapeIndex < 10:
			line.WriteByte(byte('0' + result.Hit.ShapeIndex))
		default:
			line.WriteByte('#')
		}
		if (i+1)%width == 0 {
			fmt.Fprintln(w, line.String())
			line.Reset()
		}
	}
}

func printMatrix(w io.Writer, m core.Mat4, precision int) {
	for _, row := range m.Rows() {
		cells := make([]string, len(row))
		for i, value := range row {
			if value == 0 {
				value = 0 // avoid printing -0
			}
			cells[i] = strconv.FormatFloat(value, 'f', precision, 64)
		}
		fmt.Fprintf(w, "  [%s]\n", strings.Join(cells, " "))
	}
}
