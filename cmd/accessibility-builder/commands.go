package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/config"
	"github.com/route-planner/service-planner/internal/overlay"
	"github.com/route-planner/service-planner/internal/platform/database"
	"github.com/route-planner/service-planner/internal/postal"
	"github.com/route-planner/service-planner/internal/repository"
)

func newRootCmd(log *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "accessibility-builder",
		Short:         "Build the accessibility (SEAI) dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCountCmd(log),
		newScoreCmd(log),
		newSeedPostalCmd(log),
	)
	return root
}

func newCountCmd(log *zap.Logger) *cobra.Command {
	var postalPath, amenityPath, shopPath, tourismPath, outPath string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count amenities, shops and tourism points near every postal code",
		Example: `  accessibility-builder count --postal postal_codes.csv \
    --amenity amenity.geojson --shop shop.geojson --tourism tourism.geojson \
    --out postal_code_counts.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes, err := readPostalCodes(postalPath, log)
			if err != nil {
				return err
			}

			var layers [3][]orb.Point
			for i, path := range []string{amenityPath, shopPath, tourismPath} {
				if layers[i], err = readFeatures(path); err != nil {
					return err
				}
			}

			counts := overlay.CountNearby(codes, layers[0], layers[1], layers[2])
			if err := writeFile(outPath, func(f *os.File) error { return overlay.WriteCounts(f, counts) }); err != nil {
				return err
			}

			log.Info("counts written",
				zap.String("out", outPath),
				zap.Int("postal_codes", len(counts)),
				zap.Int("amenities", len(layers[0])),
				zap.Int("shops", len(layers[1])),
				zap.Int("tourism", len(layers[2])),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&postalPath, "postal", "", "postal code CSV with Zip,Lat,Lon columns")
	cmd.Flags().StringVar(&amenityPath, "amenity", "", "amenity GeoJSON feature collection")
	cmd.Flags().StringVar(&shopPath, "shop", "", "shop GeoJSON feature collection")
	cmd.Flags().StringVar(&tourismPath, "tourism", "", "tourism GeoJSON feature collection")
	cmd.Flags().StringVar(&outPath, "out", "postal_code_counts.csv", "output CSV")
	for _, name := range []string{"postal", "amenity", "shop", "tourism"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newScoreCmd(log *zap.Logger) *cobra.Command {
	var countsPath, postalPath, outPath string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Join counts with postal coordinates and write Lat,Lon,SEAI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(countsPath)
			if err != nil {
				return fmt.Errorf("failed to open counts: %w", err)
			}
			counts, err := overlay.ReadCounts(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			codes, err := readPostalCodes(postalPath, log)
			if err != nil {
				return err
			}

			entries := overlay.Score(counts, codes, log)
			if err := writeFile(outPath, func(f *os.File) error { return overlay.WriteEntries(f, entries) }); err != nil {
				return err
			}

			log.Info("scores written", zap.String("out", outPath), zap.Int("entries", len(entries)))
			return nil
		},
	}

	cmd.Flags().StringVar(&countsPath, "counts", "postal_code_counts.csv", "counts CSV written by count")
	cmd.Flags().StringVar(&postalPath, "postal", "", "postal code CSV with Zip,Lat,Lon columns")
	cmd.Flags().StringVar(&outPath, "out", "postalAccUpdated.csv", "output CSV")
	_ = cmd.MarkFlagRequired("postal")
	return cmd
}

func newSeedPostalCmd(log *zap.Logger) *cobra.Command {
	var postalPath string

	cmd := &cobra.Command{
		Use:   "seed-postal",
		Short: "Load postal codes into the PostgreSQL postal directory",
		Long:  "Connects with the PLANNER_DB_* settings, migrates the postal_codes table and upserts every code.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			codes, err := readPostalCodes(postalPath, log)
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg.DBConfig, log)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(&repository.PostalCodeModel{}); err != nil {
				return fmt.Errorf("failed to run auto-migration: %w", err)
			}

			repo := repository.NewGormPostalRepository(db)
			if err := repo.Seed(cmd.Context(), codes); err != nil {
				return err
			}
			total, err := repo.Count(cmd.Context())
			if err != nil {
				return err
			}

			log.Info("postal codes seeded", zap.Int("codes", len(codes)), zap.Int64("total", total))
			return nil
		},
	}

	cmd.Flags().StringVar(&postalPath, "postal", "", "postal code CSV with Zip,Lat,Lon columns")
	_ = cmd.MarkFlagRequired("postal")
	return cmd
}

func readPostalCodes(path string, log *zap.Logger) ([]postal.Code, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open postal codes: %w", err)
	}
	defer f.Close()
	return postal.ReadCSV(f, log)
}

func readFeatures(path string) ([]orb.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	points, err := overlay.ReadFeaturePoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
