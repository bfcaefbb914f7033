// Package pdf talks to the external certificate rendering service. The core
// only triggers a render; template layout and file storage live downstream.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
)

type RendererClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRendererClient creates a client for the PDF renderer service. An empty
// baseURL degrades to a logged no-op for local setups.
func NewRendererClient(baseURL string, logger *slog.Logger) *RendererClient {
	if baseURL == "" {
		logger.Warn("PDF renderer URL is empty, render calls will be skipped.")
	}
	return &RendererClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

var _ portssvc.PDFRenderer = (*RendererClient)(nil)

type renderRequest struct {
	DocumentID     string `json:"documentID"`
	DocumentNumber string `json:"documentNumber"`
	DocumentType   string `json:"documentType"`
	ResidentName   string `json:"residentName"`
	Purpose        string `json:"purpose"`
	ValidFrom      string `json:"validFrom"`
	ValidUntil     string `json:"validUntil"`
	SignerName     string `json:"signerName"`
	SignerTitle    string `json:"signerTitle"`
	QRPayload      string `json:"qrPayload"`
}

// RenderDocument asks the renderer service to (re)produce the printable
// artifact for an issued document.
func (c *RendererClient) RenderDocument(ctx context.Context, document domain.IssuedDocument, residentName string) error {
	if c.baseURL == "" {
		c.logger.Debug("Skipping PDF render, renderer not configured", slog.String("document_number", document.DocumentNumber))
		return nil
	}

	payload := renderRequest{
		DocumentID:     document.DocumentID,
		DocumentNumber: document.DocumentNumber,
		DocumentType:   string(document.DocumentType),
		ResidentName:   residentName,
		Purpose:        document.Purpose,
		ValidFrom:      document.ValidFrom.UTC().Format("2006-01-02"),
		ValidUntil:     document.ValidUntil.UTC().Format("2006-01-02"),
		SignerName:     document.SignerName,
		SignerTitle:    document.SignerTitle,
		QRPayload:      document.QRPayload,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("renderer returned status %d for document %s", resp.StatusCode, document.DocumentNumber)
	}
	return nil
}
