// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/lineage"
	"github.com/H0llyW00dzZ/gramps-mcp/src/logger"
	"github.com/spf13/cobra"
)

var (
	apiURL      string
	username    string
	password    string
	caBundle    string
	descendants bool
	generations int
	format      string
	outputFile  string
	timeoutSecs int
)

// Execute runs the root command, resolving a lineage from the record store
// and writing it to stdout or a file.
//
// Connection settings fall back to the GRAMPS_API_URL, GRAMPS_USERNAME, and
// GRAMPS_PASSWORD environment variables when the flags are not given.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	rootCmd := &cobra.Command{
		Use:     "gramps-lineage [PERSON_HANDLE]",
		Short:   "Walk a person's lineage in a Gramps Web record store",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd.Context(), version, args[0], log)
		},
	}
	rootCmd.SetContext(ctx)

	rootCmd.Flags().StringVarP(&apiURL, "url", "u", os.Getenv("GRAMPS_API_URL"), "record store API base URL")
	rootCmd.Flags().StringVar(&username, "username", os.Getenv("GRAMPS_USERNAME"), "record store username")
	rootCmd.Flags().StringVar(&password, "password", os.Getenv("GRAMPS_PASSWORD"), "record store password")
	rootCmd.Flags().StringVar(&caBundle, "ca-bundle", "", "PEM bundle trusted for TLS (for self-signed stores)")
	rootCmd.Flags().BoolVarP(&descendants, "descendants", "d", false, "walk descendants instead of ancestors")
	rootCmd.Flags().IntVarP(&generations, "generations", "g", 5, "generations to walk (max 10)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "tree", "output format: 'tree', 'table', or 'json'")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 30, "per-request timeout in seconds")

	return rootCmd.ExecuteContext(ctx)
}

// runLineage connects to the record store, walks the requested direction, and
// renders the result.
func runLineage(ctx context.Context, version, handle string, log logger.Logger) error {
	c, err := client.New(client.Config{
		BaseURL:  apiURL,
		Username: username,
		Password: password,
		Timeout:  time.Duration(timeoutSecs) * time.Second,
		CABundle: caBundle,
		Version:  version,
	})
	if err != nil {
		return err
	}

	engine := lineage.NewEngine(c)

	var result *lineage.Result
	if descendants {
		result, err = engine.Descendants(ctx, handle, generations)
	} else {
		result, err = engine.Ancestors(ctx, handle, generations)
	}
	if err != nil {
		return err
	}

	if result.Total == 0 {
		log.Printf("No records reachable from handle %s", handle)
	}

	var output string
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		output = string(data)
	case "table":
		output = result.RenderTable()
	default: // tree
		output = result.RenderTree()
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Printf("Wrote %s to %s", result.Direction, outputFile)
		return nil
	}

	fmt.Println(output)
	return nil
}
