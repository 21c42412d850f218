package vespa

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"text/template"
	"time"
)

//go:embed schemas/services.xml schemas/ragdoc.sd.tmpl
var schemaFS embed.FS

// Deployer pushes the application package to the Vespa config server
type Deployer struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDeployer creates a deployer for the given config server endpoint
func NewDeployer(configEndpoint string, logger *slog.Logger) (*Deployer, error) {
	endpoint, err := validateEndpoint(configEndpoint)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deployer{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With("component", "vespa-deployer"),
	}, nil
}

// Deploy builds and activates the application package for the given
// embedding size. Redeploying an unchanged package is a no-op in Vespa.
func (d *Deployer) Deploy(ctx context.Context, dimensions int) error {
	schemaContent, err := generateSchema(dimensions)
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}
	servicesContent, err := schemaFS.ReadFile("schemas/services.xml")
	if err != nil {
		return fmt.Errorf("failed to read services.xml: %w", err)
	}
	zipData, err := createAppPackage(servicesContent, schemaContent)
	if err != nil {
		return fmt.Errorf("failed to create app package: %w", err)
	}

	deployURL := fmt.Sprintf("%s/application/v2/tenant/default/prepareandactivate", d.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deployURL, bytes.NewReader(zipData))
	if err != nil {
		return fmt.Errorf("failed to create deploy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/zip")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deployment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("deployment failed with status %s: %s", resp.Status, string(body))
	}

	d.logger.Info("deployed vespa application", "schema", documentType, "dimensions", dimensions)
	return nil
}

// generateSchema renders the ragdoc schema for the embedding size
func generateSchema(dimensions int) ([]byte, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be > 0, got %d", dimensions)
	}

	tmplContent, err := schemaFS.ReadFile("schemas/ragdoc.sd.tmpl")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("schema").Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Dimensions int }{dimensions}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// createAppPackage zips services.xml and the schema into an application package
func createAppPackage(services, schema []byte) ([]byte, error) {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	files := []struct {
		name string
		data []byte
	}{
		{"services.xml", services},
		{"schemas/" + documentType + ".sd", schema},
	}
	for _, f := range files {
		w, err := zipWriter.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
