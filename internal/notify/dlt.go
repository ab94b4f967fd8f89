package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DLTConfig holds credentials for a DLT-registered SMS gateway.
type DLTConfig struct {
	APIKey     string
	TemplateID string
	EntityID   string
	SenderID   string
	APIURL     string
}

// DLTProvider sends SMS through an HTTP JSON gateway that expects DLT
// template and entity identifiers.
type DLTProvider struct {
	cfg    DLTConfig
	client *http.Client
}

func NewDLTProvider(cfg DLTConfig, client *http.Client) *DLTProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &DLTProvider{cfg: cfg, client: client}
}

func (p *DLTProvider) Name() string { return "dlt" }

type dltRequest struct {
	APIKey     string `json:"apikey"`
	Sender     string `json:"sender"`
	TemplateID string `json:"template_id"`
	EntityID   string `json:"entity_id"`
	Message    string `json:"message"`
	Mobile     string `json:"mobile"`
}

type dltResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Simulated reports whether the configured URL is a placeholder, in which
// case sends succeed without network access.
func (p *DLTProvider) Simulated() bool {
	return strings.Contains(p.cfg.APIURL, "example.com")
}

func (p *DLTProvider) Send(ctx context.Context, phone, message string) error {
	if p.cfg.APIKey == "" || p.cfg.TemplateID == "" || p.cfg.EntityID == "" {
		return fmt.Errorf("dlt: credentials missing: %w", ErrNotConfigured)
	}
	if p.Simulated() {
		return nil
	}

	body, err := json.Marshal(dltRequest{
		APIKey:     p.cfg.APIKey,
		Sender:     p.cfg.SenderID,
		TemplateID: p.cfg.TemplateID,
		EntityID:   p.cfg.EntityID,
		Message:    message,
		Mobile:     phone,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dlt request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("dlt request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dlt: unexpected status %d", resp.StatusCode)
	}

	var out dltResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("dlt unmarshal: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("dlt: rejected: status=%q", out.Status)
	}
	return nil
}
