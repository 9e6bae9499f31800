// Command smokecheck validates that an application's containerized
// dependencies are running and healthy, probes external services for
// connectivity, runs an end-to-end functional check, and renders the
// aggregated results as console, JSON, HTML, or Markdown reports.
//
// The exit code is 0 iff all required checks pass.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jvandyke/smokecheck/pkg/check"
	"github.com/jvandyke/smokecheck/pkg/e2e"
	"github.com/jvandyke/smokecheck/pkg/probe"
	"github.com/jvandyke/smokecheck/pkg/report"
	"github.com/jvandyke/smokecheck/pkg/source"
)

// version is overridden at build time via -ldflags.
var version = "dev"

type runOptions struct {
	configPath        string
	envFile           string
	jsonPath          string
	htmlPath          string
	markdownPath      string
	kafkaTopic        string
	cassandraKeyspace string
	skipContainers    bool
	skipServices      bool
	skipE2E           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smokecheck",
		Short:         "Smoke-test harness for containerized dependencies and external services",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the smokecheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smokecheck %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all smoke checks and render reports",
		Long: `Run validates containers against live Docker state, probes external
services defined in the config file and the EXTERNAL_* environment
variables, and exercises end-to-end workflows against the external
Redis, Kafka, and Cassandra endpoints when configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML check configuration")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "env file to load before building descriptors")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "write a JSON report to this path")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "write an HTML report to this path")
	cmd.Flags().StringVar(&opts.markdownPath, "markdown", "", "write a Markdown report to this path")
	cmd.Flags().StringVar(&opts.kafkaTopic, "kafka-topic", "smokecheck-e2e", "topic for the Kafka end-to-end publish")
	cmd.Flags().StringVar(&opts.cassandraKeyspace, "cassandra-keyspace", "", "keyspace for the Cassandra end-to-end query")
	cmd.Flags().BoolVar(&opts.skipContainers, "skip-containers", false, "skip the container health check")
	cmd.Flags().BoolVar(&opts.skipServices, "skip-services", false, "skip the external service connectivity check")
	cmd.Flags().BoolVar(&opts.skipE2E, "skip-e2e", false, "skip the end-to-end functionality check")

	return cmd
}

func runChecks(cmd *cobra.Command, opts *runOptions) error {
	logger := newLogger()

	if opts.envFile != "" {
		source.LoadEnvFiles(logger, opts.envFile)
	} else {
		source.LoadEnvFiles(logger)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	harness := check.New(check.WithLogger(logger))
	rep := report.New(cfg.Application, cfg.Environment)
	var failures []error

	if opts.skipContainers || len(cfg.Containers) == 0 {
		logger.Info("container health check skipped")
	} else if err := runContainerCheck(cmd.Context(), harness, cfg); err != nil {
		failures = append(failures, err)
		rep.AddLog(err.Error())
	}

	if opts.skipServices {
		logger.Info("external service connectivity check skipped")
	} else if err := runServiceCheck(harness, cfg); err != nil {
		failures = append(failures, err)
		rep.AddLog(err.Error())
	}

	if opts.skipE2E {
		logger.Info("end-to-end check skipped")
	} else if err := runEndToEnd(harness, logger, opts); err != nil {
		failures = append(failures, err)
		rep.AddLog(err.Error())
	}

	rep.AddCheckResults(harness.Results()...)
	if err := rep.WriteConsole(cmd.OutOrStdout()); err != nil {
		logger.WithError(err).Error("failed to render console report")
	}
	renderFiles(rep, logger, opts)

	if len(failures) > 0 {
		return fmt.Errorf("smoke checks failed: %w", errors.Join(failures...))
	}
	return nil
}

// loadConfig reads the YAML config when given, or falls back to a
// minimal config driven entirely by environment variables.
func loadConfig(path string) (*source.Config, error) {
	if path != "" {
		return source.LoadConfig(path)
	}
	cfg := &source.Config{
		Application: "smokecheck",
		Environment: "local",
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	return cfg, nil
}

func runContainerCheck(ctx context.Context, harness *check.Harness, cfg *source.Config) error {
	docker, err := source.NewDocker()
	if err != nil {
		return fmt.Errorf("container health check: %w", err)
	}
	defer docker.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	containers, err := docker.Containers(ctx, cfg.Containers)
	if err != nil {
		return fmt.Errorf("container health check: %w", err)
	}
	return harness.CheckContainers(containers)
}

func runServiceCheck(harness *check.Harness, cfg *source.Config) error {
	services, err := cfg.ExternalServices(probe.DefaultRegistry())
	if err != nil {
		return fmt.Errorf("external service check: %w", err)
	}
	services = append(services, source.ServicesFromEnv()...)
	return harness.CheckServices(services)
}

// runEndToEnd builds the end-to-end workflow from the configured
// external endpoints. With nothing configured there is no workflow to
// exercise, which is not a failure.
func runEndToEnd(harness *check.Harness, logger *logrus.Logger, opts *runOptions) error {
	var workflows []func() error

	if raw := os.Getenv(source.EnvRedisURL); raw != "" {
		host, port, err := source.HostPort(raw)
		if err == nil {
			workflows = append(workflows, e2e.Redis(fmt.Sprintf("%s:%d", host, port)))
		} else {
			logger.Warnf("skipping redis e2e: %v", err)
		}
	}
	if raw := os.Getenv(source.EnvKafkaURL); raw != "" {
		workflows = append(workflows, e2e.Kafka([]string{raw}, opts.kafkaTopic))
	}
	if raw := os.Getenv(source.EnvCassandraURL); raw != "" {
		workflows = append(workflows, e2e.Cassandra([]string{raw}, opts.cassandraKeyspace))
	}

	if len(workflows) == 0 {
		logger.Info("no end-to-end workflows configured")
		return nil
	}
	return harness.CheckEndToEnd(e2e.All(workflows...))
}

func renderFiles(rep *report.Report, logger *logrus.Logger, opts *runOptions) {
	if opts.jsonPath != "" {
		if err := rep.WriteJSON(opts.jsonPath); err != nil {
			logger.WithError(err).Error("failed to render json report")
		}
	}
	if opts.htmlPath != "" {
		if err := rep.WriteHTML(opts.htmlPath); err != nil {
			logger.WithError(err).Error("failed to render html report")
		}
	}
	if opts.markdownPath != "" {
		if err := rep.WriteMarkdown(opts.markdownPath); err != nil {
			logger.WithError(err).Error("failed to render markdown report")
		}
	}
}

// newLogger builds the process logger with the level taken from
// LOG_LEVEL.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
