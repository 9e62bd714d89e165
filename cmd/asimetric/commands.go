package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"asimetric/internal/models"
	"asimetric/pkg/config"
	"asimetric/pkg/extraction"
	"asimetric/pkg/region"
	"asimetric/pkg/visualization"
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "asimetric",
		Short: "Extract per-frame brightness metrics from all-sky imager regions",
		Long: `asimetric reduces a region of an all-sky imager frame series to one value per
frame. Regions are given in azimuth, elevation, detector pixel or geodetic
coordinates; the skymap maps detector pixels to those coordinates.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "asimetric.yaml", "YAML configuration file")

	rootCmd.AddCommand(newExtractCmd(&configPath))
	rootCmd.AddCommand(newInitConfigCmd(&configPath))

	return rootCmd
}

func newInitConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfigFile(*configPath); err != nil {
				return err
			}
			fmt.Printf("Default configuration written to %s\n", *configPath)
			return nil
		},
	}
}

func newExtractCmd(configPath *string) *cobra.Command {
	var (
		skymapFile string
		mode       string
		bounds     []float64
		metric     string
		percentile float64
		altitude   float64
		numCores   int
		preview    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "extract [frames_directory]",
		Short: "Compute the region metric for every frame",
		Long: `Load the PNG/JPEG frames of a directory in filename number order and print
the region metric for each frame. Grayscale frames give one series; colour
frames give one series per channel. Flags override the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if len(args) > 0 {
				cfg.Input.FramesDir = args[0]
			}
			if flags.Changed("skymap") {
				cfg.Input.SkymapFile = skymapFile
			}
			if flags.Changed("mode") {
				cfg.Request.Mode = mode
			}
			if flags.Changed("bounds") {
				cfg.Request.Bounds = bounds
			}
			if flags.Changed("metric") {
				cfg.Request.Metric = metric
				cfg.Request.Percentile = nil
			}
			if flags.Changed("percentile") {
				cfg.Request.Percentile = &percentile
				if !flags.Changed("metric") {
					cfg.Request.Metric = ""
				}
			}
			if flags.Changed("altitude") {
				cfg.Request.AltitudeKm = &altitude
			}
			if flags.Changed("cores") && numCores > 0 {
				cfg.Processing.NumCores = numCores
			}
			if flags.Changed("preview") {
				cfg.Request.ShowPreview = true
				cfg.Output.PreviewFile = preview
			}
			if verbose {
				cfg.Output.Verbose = true
			}

			if cfg.Input.FramesDir == "" {
				return fmt.Errorf("no frames directory given")
			}
			return runExtract(cfg)
		},
	}

	cmd.Flags().StringVarP(&skymapFile, "skymap", "s", "", "YAML skymap file for the imager")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "region mode (azimuth|elevation|ccd|geodetic|geomagnetic)")
	cmd.Flags().Float64SliceVarP(&bounds, "bounds", "b", nil, "region bounds, e.g. 0,9,0,9 for ccd")
	cmd.Flags().StringVar(&metric, "metric", "", "statistic (median|mean|sum)")
	cmd.Flags().Float64VarP(&percentile, "percentile", "p", 0, "nearest-rank percentile in (0, 100) instead of --metric")
	cmd.Flags().Float64VarP(&altitude, "altitude", "a", 0, "mapping altitude in km for geodetic regions")
	cmd.Flags().IntVar(&numCores, "cores", 0, "number of extra regions to evaluate concurrently")
	cmd.Flags().StringVar(&preview, "preview", "", "write the first frame with the region overlaid to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each processing stage")

	return cmd
}

// runExtract evaluates the primary request and any extra regions of cfg
func runExtract(cfg *config.Config) error {
	startTime := time.Now()

	raw, err := extraction.LoadFrames(cfg.Input.FramesDir)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded frames with shape %v from %s\n", raw.Shape, cfg.Input.FramesDir)

	var skymap *models.Skymap
	if cfg.Input.SkymapFile != "" {
		skymap, err = extraction.LoadSkymap(cfg.Input.SkymapFile)
		if err != nil {
			return err
		}
	}

	requests := cfg.Requests()
	params := cfg.Params()
	params.Skymap = skymap
	params.Preview = func(s models.ImageStack, m region.Mask) error {
		if err := visualization.NewViewer(s).Preview(m, 0, cfg.Output.PreviewFile, cfg.Output.PreviewWidth); err != nil {
			return err
		}
		fmt.Printf("Region preview saved to: %s\n", cfg.Output.PreviewFile)
		return nil
	}

	result, err := extraction.NewExtractor(params).Extract(raw)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	printResult(requests[0], result)

	if len(requests) > 1 {
		if cfg.Output.Verbose {
			log.Printf("Evaluating %d extra region(s) on %d core(s)", len(requests)-1, cfg.Processing.NumCores)
		}
		results, err := extraction.ExtractMany(raw, skymap, requests[1:], cfg.Processing.NumCores)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		for i, r := range results {
			printResult(requests[i+1], r)
		}
	}

	fmt.Printf("\nCompleted %d region(s) in %.2f seconds\n", len(requests), time.Since(startTime).Seconds())
	return nil
}

func printResult(req extraction.Request, result models.MetricResult) {
	stat := req.Metric
	if req.Percentile != nil {
		stat = fmt.Sprintf("percentile(%g)", *req.Percentile)
	}
	if stat == "" {
		stat = "median"
	}

	fmt.Printf("\n%s %v, %s:\n", req.Mode, req.Bounds, stat)
	for c := 0; c < result.Channels; c++ {
		if result.Channels > 1 {
			fmt.Printf("  channel %d:", c)
		} else {
			fmt.Printf(" ")
		}
		for _, v := range result.Channel(c) {
			fmt.Printf(" %.6g", v)
		}
		fmt.Println()
	}
}
