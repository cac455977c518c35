// Command gpt-classify sends a batch of robot records to an
// OpenAI-compatible endpoint and writes the ten-field classifications back.
// A failed record becomes an error object in the output; it never aborts
// the batch, and partial failure still exits zero.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotaxa/robotaxa/internal/corpusio"
	"github.com/robotaxa/robotaxa/internal/logging"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/remote"
)

func main() {
	var (
		input     = flag.String("input", "", "Input JSON array of robot records (required)")
		output    = flag.String("output", "", "Output path for classifications (required)")
		baseURL   = flag.String("base-url", "", "OpenAI-compatible endpoint base URL (optional)")
		model     = flag.String("model", "gpt-4o-mini", "Model name")
		apiKeyEnv = flag.String("api-key-env", "OPENAI_API_KEY", "Environment variable holding the API key")
		logLevel  = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	if *output == "" {
		log.Fatal("--output required")
	}

	apiKey := os.Getenv(*apiKeyEnv)
	if apiKey == "" {
		log.Fatalf("environment variable %s is empty", *apiKeyEnv)
	}

	logger, err := logging.New("dev", *logLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	entities, err := corpusio.LoadEntities(*input)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	classifier := remote.New(remote.Config{
		APIKey:  apiKey,
		BaseURL: *baseURL,
		Model:   *model,
		Logger:  logger,
	})

	results := classifier.ClassifyAll(context.Background(), entities)

	if err := corpusio.SaveRemote(*output, results); err != nil {
		log.Fatalf("write output: %v", err)
	}

	failed := 0
	for _, res := range results {
		if res.Failure != nil {
			failed++
		}
	}
	fmt.Printf("classified %d robots (%d failed)\n", len(results)-failed, failed)
}
