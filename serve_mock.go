package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/framework"
	"github.com/ga4gh/compliance-harness/mockapi"

	"github.com/spf13/cobra"
)

const defaultMockPort = 8000

type serveMockParams struct {
	apiVersion  string
	port        int
	datasetFile string
	debug       bool
}

func newServeMockCommand() *cobra.Command {
	var params serveMockParams
	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Serve a mock API with a conformant dataset, for trying out the harness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveMock(cmd.Context(), params)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&params.apiVersion, "api-version", envOrDefault(apiVersionEnvVar, apimodel.V05), "API version to serve")
	fs.IntVar(&params.port, "port", defaultMockPort, "port to listen on")
	fs.StringVar(&params.datasetFile, "dataset-file", "", "JSON file to serve instead of the built-in dataset")
	fs.BoolVar(&params.debug, "debug", false, "log every request")
	return cmd
}

func serveMock(ctx context.Context, params serveMockParams) error {
	logger := newLogger(params.debug)

	dataset, err := mockapi.LoadDataset(params.apiVersion)
	if params.datasetFile != "" {
		var raw []byte
		if raw, err = os.ReadFile(params.datasetFile); err != nil {
			return fmt.Errorf("failed to read dataset file: %w", err)
		}
		dataset, err = mockapi.ParseDataset(raw)
	}
	if err != nil {
		return err
	}

	// Debug-level messages are only written when --debug is given.
	service, err := mockapi.NewService(params.apiVersion, dataset,
		framework.LoggerWithPrefix(debugLogAdapter{logger}, "[mock] "))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", params.port),
		Handler:           service,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Mock GA4GH API %s listening on http://localhost:%d with dataset ID %q",
		params.apiVersion, params.port, mockapi.DatasetID)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
