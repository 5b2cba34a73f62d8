package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/akamensky/argparse"

	"github.com/menta2k/voc2tfrecord/internal/config"
	"github.com/menta2k/voc2tfrecord/internal/utils"
	"github.com/menta2k/voc2tfrecord/pkg/prepare"
)

func main() {
	parser := argparse.NewParser("voc2tfrecord", "Prepare a PASCAL-VOC dataset for TensorFlow object detection: generates the label map and two tfrecord files, a training set and a test set")
	input := parser.String("i", "input", &argparse.Options{Help: "Input directory, where your dataset is. Will be searched recursively", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Output directory, where the label map and tfrecord files will be written", Required: true})
	retain := parser.String("r", "retain", &argparse.Options{Help: "Percentage of data that should be retained and placed in the test set (e.g. 20, 20% or 20/100; default 20%)", Default: ""})
	compress := parser.Flag("z", "compress", &argparse.Options{Help: "Gzip-compress the tfrecord files", Default: false})
	jsonLogs := parser.Flag("", "json-logs", &argparse.Options{Help: "Emit logs as JSON", Default: false})
	configFile := parser.String("c", "config", &argparse.Options{Help: "Path to a JSON config file with defaults for retain, compress and json_logs", Default: ""})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	// Flags override config-file defaults.
	if *retain == "" {
		*retain = cfg.Retain
	}

	opts := config.Options{
		Input:    *input,
		Output:   *output,
		Retain:   *retain,
		Compress: *compress || cfg.Compress,
		JSONLogs: *jsonLogs || cfg.JSONLogs,
	}
	if err := opts.Validate(); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	var handler slog.Handler
	if opts.JSONLogs {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	report, err := prepare.Run(prepare.Options{
		Input:     opts.Input,
		Output:    opts.Output,
		TestRatio: opts.TestRatio(),
		Compress:  opts.Compress,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("dataset preparation failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.String())
}

// loadConfig reads the config file named on the command line, or the one at
// the default path when it exists. With neither, defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	if p := config.GetConfigPath(); utils.FileExists(p) {
		return config.LoadFromFile(p)
	}
	return config.Default(), nil
}
