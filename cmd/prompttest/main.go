// Command prompttest exercises the recommendation prompt against a request file.
//
// Usage:
//
//	prompttest prompt -r req.json
//	prompttest run -r req.json [--out raw.txt] [--model gemini-1.5-flash]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storefront-backend/internal/catalog"
	"storefront-backend/internal/llm"
	"storefront-backend/internal/llm/gemini"
	"storefront-backend/internal/recommend"
	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/httpx"
)

func main() {
	cfg := config.Load()
	root := newRootCmd(func(model string) llm.Generator {
		return gemini.NewClient(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   model,
			HTTP:    httpx.NewClient(cfg.GeminiTimeout),
		})
	}, cfg.GeminiModel)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(newGenerator func(model string) llm.Generator, defaultModel string) *cobra.Command {
	root := &cobra.Command{
		Use:           "prompttest",
		Short:         "Try the recommendation prompt against a request file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPromptCmd(), newRunCmd(newGenerator, defaultModel))
	return root
}

func newPromptCmd() *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt built for a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(requestPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), recommend.BuildPrompt(req.Request))
			return nil
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to a recommendation request JSON file")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func newRunCmd(newGenerator func(model string) llm.Generator, defaultModel string) *cobra.Command {
	var (
		requestPath string
		outPath     string
		model       string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Call the generative API and show parsed, matched and served handles",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(requestPath)
			if err != nil {
				return err
			}
			text, err := newGenerator(model).Generate(cmd.Context(), recommend.BuildPrompt(req.Request))
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			if strings.TrimSpace(outPath) != "" {
				if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			return writeSummary(cmd.OutOrStdout(), text, req)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to a recommendation request JSON file")
	cmd.Flags().StringVar(&outPath, "out", "", "Path to write the raw model text")
	cmd.Flags().StringVar(&model, "model", defaultModel, "Generative model")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func readRequest(path string) (recommend.WidgetRequest, error) {
	var req recommend.WidgetRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func writeSummary(w io.Writer, text string, req recommend.WidgetRequest) error {
	handles, err := recommend.ParseHandles(text)
	if err != nil {
		return fmt.Errorf("parse model output: %w\n%s", err, text)
	}
	matched := recommend.MatchHandles(handles, req.AvailableProducts)
	served := recommend.MergeFallback(matched, req.FallbackProducts)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"handles": handles,
		"matched": productHandles(matched),
		"served":  productHandles(served),
	})
}

func productHandles(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Handle)
	}
	return out
}
