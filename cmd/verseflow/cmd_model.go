package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/verseflow/pkg/llm"
	"github.com/user/verseflow/pkg/llm/ollama"
)

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelCheckCmd, modelVerifyCmd)
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Diagnose the local model server",
}

func newProvider() llm.Provider {
	cfg := loadConfig()
	return ollama.New(&llm.Config{
		BaseURL:        cfg.Model.BaseURL,
		Model:          cfg.Model.Name,
		Temperature:    cfg.Model.Temperature,
		TopP:           cfg.Model.TopP,
		TopK:           cfg.Model.TopK,
		TimeoutSeconds: cfg.Model.TimeoutSeconds,
	})
}

var modelCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe whether the model server is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if newProvider().TestConnection(ctx) {
			fmt.Fprintln(os.Stdout, "model server is reachable")
			return nil
		}
		fmt.Fprintln(os.Stdout, "model server is NOT reachable")
		os.Exit(1)
		return nil
	},
}

var modelVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Ask the configured model to identify itself",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, err := newProvider().VerifyIdentity(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, reply)
		return nil
	},
}
