package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kaical/internal/config"
	"kaical/internal/ics"
	"kaical/internal/model"
	"kaical/internal/recurrence"
	"kaical/internal/schedule"
)

type flagConfig struct {
	configPath string
	input      string
	output     string
	watch      bool
	preview    bool
	verbose    bool
}

func main() {
	flags := parseFlags()

	logger := newLogger(flags.verbose)
	defer logger.Sync()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err), zap.String("config_path", flags.configPath))
	}

	// CLI path overrides take precedence over the config file.
	if flags.input != "" {
		conf.Input = flags.input
	}
	if flags.output != "" {
		conf.Output = flags.output
	}

	logger.Info("effective config",
		zap.String("timezone", conf.Timezone),
		zap.String("semester_start", conf.SemesterStart),
		zap.String("semester_end", conf.SemesterEnd),
		zap.String("input", conf.Input),
		zap.String("output", conf.Output),
		zap.String("refresh", conf.RefreshCron),
		zap.Bool("watch", flags.watch),
	)

	if err := generate(conf, flags.preview, logger); err != nil {
		logger.Fatal("schedule conversion failed", zap.Error(err))
	}

	if !flags.watch {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := generate(conf, flags.preview, logger); err != nil {
			logger.Error("scheduled regeneration failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("invalid refresh schedule", zap.String("refresh", conf.RefreshCron), zap.Error(err))
	}
	c.Start()

	<-ctx.Done()
	c.Stop()
	logger.Info("kaical exiting")
}

// generate runs one full conversion: read the raw JSON, parse it into
// entries, serialize and assemble the calendar, then write the output
// atomically. Nothing is written when any stage fails.
func generate(conf *config.Config, preview bool, logger *zap.Logger) error {
	semStart, semEnd, year, err := conf.Semester()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(conf.Input)
	if err != nil {
		return err
	}

	parser, err := schedule.NewParser(content, schedule.Semester{
		Start: semStart,
		End:   semEnd,
		Year:  year,
	}, logger)
	if err != nil {
		return err
	}

	entries, err := parser.Parse()
	if err != nil {
		return err
	}

	if preview {
		logOccurrences(entries, semStart, semEnd, logger)
	}

	ser := &ics.Serializer{}
	doc := ics.Calendar(ser.Blocks(entries))

	if err := writeFileAtomic(conf.Output, []byte(doc)); err != nil {
		return err
	}

	logger.Info("calendar written",
		zap.String("output", conf.Output),
		zap.Int("entries", len(entries)))
	return nil
}

// logOccurrences expands each recurring entry inside the semester
// window and reports the concrete occurrence count.
func logOccurrences(entries []model.Entry, semStart, semEnd time.Time, logger *zap.Logger) {
	// The window end is a midnight cutoff; extend by a day so lessons
	// on the final date still count.
	windowEnd := semEnd.AddDate(0, 0, 1)
	for _, e := range entries {
		if e.Rule == nil {
			logger.Info("single lesson",
				zap.String("subject", e.Subject),
				zap.Time("start", e.Start))
			continue
		}
		occ, err := recurrence.Occurrences(e.Rule, e.Start, semStart, windowEnd)
		if err != nil {
			logger.Error("failed to expand entry", zap.String("subject", e.Subject), zap.Error(err))
			continue
		}
		logger.Info("recurring lesson",
			zap.String("subject", e.Subject),
			zap.String("rrule", e.Rule.RRule()),
			zap.Time("first", e.Start),
			zap.Int("occurrences", len(occ)))
	}
}

// writeFileAtomic writes via a temp file + rename so a failed run never
// leaves a partial output document behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".kaical-out-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "kaical.yaml", "Path to config file")
	flag.StringVar(&cfg.input, "input", "", "Schedule JSON path (overrides config if set)")
	flag.StringVar(&cfg.output, "output", "", "ICS output path (overrides config if set)")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and regenerate on the configured cron schedule")
	flag.BoolVar(&cfg.preview, "preview", false, "Log expanded occurrence counts per lesson")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
