package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/MichaelF102/Uber-Analytics/internal/chart"
	"github.com/MichaelF102/Uber-Analytics/internal/config"
	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	"github.com/MichaelF102/Uber-Analytics/internal/report"
	"github.com/MichaelF102/Uber-Analytics/internal/repository"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
	dbbuilder "github.com/MichaelF102/Uber-Analytics/pkg/database"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.LoadFromEnv()

	sel := service.Selection{}
	dbPath := flag.String("db", cfg.DBPath, "path to the aggregate SQLite database")
	csvPath := flag.String("csv", cfg.CSVPath, "path to the cleaned bookings CSV")
	format := flag.String("format", string(report.FormatText), "output format: text, markdown or csv")
	chartsDir := flag.String("charts", "", "directory to write a PNG and an HTML page per chart view")
	flag.Func("filter", "restrict a dimension, as dim=value (repeatable; dim= selects nothing)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return errors.New("expected dim=value")
		}
		dim, err := service.ParseDimension(key)
		if err != nil {
			return err
		}
		if _, seen := sel[dim]; !seen {
			sel[dim] = []string{}
		}
		if value = strings.TrimSpace(value); value != "" {
			sel[dim] = append(sel[dim], value)
		}
		return nil
	})
	flag.Parse()

	outFormat, err := report.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(&config.Config{AppEnv: "production"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = run(ctx, options{
		driver:    cfg.DBDriver,
		dbPath:    *dbPath,
		csvPath:   *csvPath,
		format:    outFormat,
		chartsDir: *chartsDir,
		sel:       sel,
	}, os.Stdout, logger)
	if err != nil {
		logger.Fatal("Report failed", zap.Error(err))
	}
}

type options struct {
	driver    string
	dbPath    string
	csvPath   string
	format    report.Format
	chartsDir string
	sel       service.Selection
}

// run renders one report for opts.sel to out, and chart files when opts.chartsDir is set.
func run(ctx context.Context, opts options, out io.Writer, logger *zap.Logger) error {
	db, err := dbbuilder.New(
		dbbuilder.WithDriver(opts.driver),
		dbbuilder.WithDataSource(opts.dbPath),
		dbbuilder.WithReadOnly(true),
		dbbuilder.WithRetry(1, 0),
	)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := repository.NewAggregateRepository(db)
	if err := repo.Verify(ctx); err != nil {
		return fmt.Errorf("database schema check failed: %w", err)
	}

	svc := service.NewDashboardService(repo, dataset.NewHandle(opts.csvPath, logger), logger)

	dash, err := svc.Render(ctx, opts.sel)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	if err := report.Write(out, dash, opts.format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if opts.chartsDir != "" {
		if err := writeCharts(opts.chartsDir, dash, logger); err != nil {
			return fmt.Errorf("write charts: %w", err)
		}
	}
	return nil
}

func writeCharts(dir string, dash *service.Dashboard, logger *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, view := range chart.ViewNames() {
		series, err := chart.ForView(view, dash)
		if err != nil {
			return err
		}
		img, err := chart.Render(series)
		if errors.Is(err, chart.ErrEmptySeries) {
			logger.Info("skipping empty chart", zap.String("view", view))
			continue
		}
		if err != nil {
			return err
		}
		page, err := chart.HTML(series)
		if err != nil {
			return err
		}
		for path, data := range map[string][]byte{
			filepath.Join(dir, view+".png"):  img,
			filepath.Join(dir, view+".html"): page,
		} {
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	return nil
}
