package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/clients/kafka_client"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spf13/cobra"
)

// publisher is what submit needs from a Kafka producer.
type publisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
	Close()
}

type publisherFactory func(cfg config.KafkaConfig) (publisher, error)

func kafkaPublisher(cfg config.KafkaConfig) (publisher, error) {
	p, err := kafka_client.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RootCommand builds the CLI. A nil newPublisher uses the Kafka producer.
func RootCommand(cfg config.Config, newPublisher publisherFactory) *cobra.Command {
	if newPublisher == nil {
		newPublisher = kafkaPublisher
	}

	// The CLI keeps history in memory for the lifetime of one command.
	service := dashboard.NewService(db.NewMemoryHistory(cfg.HistoryLimit), dashboard.Options{
		StripMarkdown: cfg.StripMarkdown,
		BatchWorkers:  cfg.BatchWorkers,
	})

	rootCmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Keyword sentiment and emotion analysis",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		textCommand(service),
		batchCommand(service),
		compareCommand(service),
		samplesCommand(service),
		submitCommand(cfg.Kafka, newPublisher),
	)
	return rootCmd
}

func textCommand(service *dashboard.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "text [words...]",
		Short: "Analyze a single text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := service.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), analysis)
		},
	}
}

func batchCommand(service *dashboard.Service) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every non-blank line of a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			results, err := service.AnalyzeBatch(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input file, one text per line (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func compareCommand(service *dashboard.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [words...]",
		Short: "Analyze a text and cross-check it with VADER",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison, err := service.Compare(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), comparison)
		},
	}
}

func samplesCommand(service *dashboard.Service) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List the sample texts, or analyze a random one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !analyze {
				return printJSON(cmd.OutOrStdout(), service.Samples())
			}
			analysis, err := service.AnalyzeSample(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), analysis)
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", false, "analyze a randomly picked sample")
	return cmd
}

func submitCommand(cfg config.KafkaConfig, newPublisher publisherFactory) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Queue a file for the analysis worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			if len(dashboard.SplitBatch(input)) == 0 {
				return dashboard.ErrEmptyBatch
			}

			p, err := newPublisher(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			request := models.AnalysisRequest{
				RequestID: uuid.NewString(),
				Text:      input,
			}
			if err := p.PublishJSON(cmd.Context(), cfg.RequestsTopic, request.RequestID, request); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"request_id": request.RequestID,
				"topic":      cfg.RequestsTopic,
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input file, one text per line (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	if file == "" {
		return "", errors.New("--file is required")
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
