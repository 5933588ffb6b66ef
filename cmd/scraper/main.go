package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go-workua-scraper/internal/app"
	"go-workua-scraper/internal/config"
	"go-workua-scraper/internal/scraper"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func newCommand(out io.Writer) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML config",
		Value: config.DefaultPath,
	}

	return &cli.Command{
		Name:  "workua",
		Usage: "scrape job listings and job pages from work.ua",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "search jobs and print the summaries as JSON",
				ArgsUsage: "<query words, remote/віддалено/дистанційно for remote only>",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of results (1-10)",
						Value: scraper.MaxResults,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "also write the results to logs/job-search-YYYY-MM-DD.json",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return searchAction(ctx, cmd, out)
				},
			},
			{
				Name:      "job",
				Usage:     "scrape one job page and print it as JSON",
				ArgsUsage: "<https://www.work.ua/jobs/ID/>",
				Flags:     []cli.Flag{configFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return jobAction(ctx, cmd, out)
				},
			},
		},
	}
}

func searchAction(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	jobs, err := rt.Scraper.Search(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	log.Printf("📦 Total jobs collected: %d", len(jobs))

	if cmd.Bool("save") {
		path, err := saveJobs("logs", time.Now(), jobs)
		if err != nil {
			log.Printf("⚠️ Failed to save results: %v", err)
		} else if path != "" {
			log.Printf("📁 Results saved to %s", path)
		}
	}
	return writeJSON(out, jobs)
}

func jobAction(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one job URL, got %d arguments", cmd.Args().Len())
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	job, err := rt.Scraper.Job(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return writeJSON(out, job)
}

func loadRuntime(cmd *cli.Command) (*app.Runtime, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// saveJobs writes jobs to dir/job-search-YYYY-MM-DD.json and returns the
// path. Nothing is written for an empty list.
func saveJobs(dir string, now time.Time, jobs []scraper.JobSummary) (string, error) {
	if len(jobs) == 0 {
		log.Println("ℹ️ No jobs to save.")
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("job-search-%s.json", now.Format("2006-01-02")))
	data, err := json.MarshalIndent(jobs, "", " ")
	if err != nil {
		return "", fmt.Errorf("marshal jobs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}
