// Package ledger records approved payments in the team's Notion CRM
// database. Like the notification sinks, writes are best effort: a
// missing token disables the ledger, a failed write is logged and
// counted but never blocks webhook processing.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/config"
	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
	"github.com/caiomioto2/workshop-athena-checkout/pkg/metric"
)

const (
	_sinkNotion     = "notion"
	_notionVersion  = "2022-06-28"
	_clientTimeout  = 15 * time.Second
	_crmSearchQuery = "CRM"
)

// Notion writes one page per approved payment into the CRM database.
// The database is either pinned by id in configuration or discovered
// by searching the workspace for the most recently edited database
// titled "CRM". Column mapping is schema-aware: each payment field is
// written with whatever property type the database declares for it.
type Notion struct {
	client  *http.Client
	cfg     config.Notion
	log     logger.Logger
	metrics metric.SideEffect

	mu         sync.Mutex
	databaseID string
}

func NewNotion(cfg *config.Config, log logger.Logger, metrics metric.SideEffect) *Notion {
	return &Notion{
		client:  &http.Client{Timeout: _clientTimeout},
		cfg:     cfg.Notion,
		log:     log,
		metrics: metrics,
	}
}

// RecordPayment appends the payment to the CRM database.
func (n *Notion) RecordPayment(ctx context.Context, detail *entity.PaymentDetail) error {
	const op = "ledger.Notion.RecordPayment"

	if n.cfg.Token == "" {
		n.log.Ctx(ctx).Debugw("notion ledger not configured, skipping")
		return nil
	}

	databaseID, err := n.resolveDatabaseID(ctx)
	if err != nil {
		n.metrics.Failed(_sinkNotion)
		return fmt.Errorf("%s: %w", op, err)
	}

	schema, titleProp, err := n.fetchSchema(ctx, databaseID)
	if err != nil {
		n.metrics.Failed(_sinkNotion)
		return fmt.Errorf("%s: %w", op, err)
	}

	properties := buildProperties(schema, titleProp, detail)

	payload := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": properties,
	}

	if _, err := n.request(ctx, http.MethodPost, "/v1/pages", payload); err != nil {
		n.metrics.Failed(_sinkNotion)
		return fmt.Errorf("%s: create page: %w", op, err)
	}

	n.metrics.Sent(_sinkNotion)
	n.log.Ctx(ctx).Infow("payment recorded in crm",
		"payment_id", detail.PaymentID,
		"database_id", databaseID,
	)
	return nil
}

// resolveDatabaseID returns the configured id or searches the
// workspace once and caches the hit.
func (n *Notion) resolveDatabaseID(ctx context.Context) (string, error) {
	if n.cfg.DatabaseID != "" {
		return n.cfg.DatabaseID, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.databaseID != "" {
		return n.databaseID, nil
	}

	payload := map[string]any{
		"query": _crmSearchQuery,
		"filter": map[string]string{
			"value":    "database",
			"property": "object",
		},
		"sort": map[string]string{
			"direction": "descending",
			"timestamp": "last_edited_time",
		},
	}

	raw, err := n.request(ctx, http.MethodPost, "/v1/search", payload)
	if err != nil {
		return "", fmt.Errorf("search databases: %w", err)
	}

	var result struct {
		Results []struct {
			ID    string `json:"id"`
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	// Prefer an exact title match; the search also returns databases
	// that merely mention CRM somewhere.
	for _, db := range result.Results {
		for _, t := range db.Title {
			if strings.EqualFold(strings.TrimSpace(t.PlainText), _crmSearchQuery) {
				n.databaseID = db.ID
				return db.ID, nil
			}
		}
	}
	if len(result.Results) > 0 {
		n.databaseID = result.Results[0].ID
		return n.databaseID, nil
	}

	return "", fmt.Errorf("no database titled %q found", _crmSearchQuery)
}

// fetchSchema loads the database property map and finds its title
// column. Every Notion database has exactly one title property.
func (n *Notion) fetchSchema(ctx context.Context, databaseID string) (map[string]string, string, error) {
	raw, err := n.request(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetch database: %w", err)
	}

	var db struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, "", fmt.Errorf("decode database: %w", err)
	}

	schema := make(map[string]string, len(db.Properties))
	titleProp := ""
	for name, prop := range db.Properties {
		schema[name] = prop.Type
		if prop.Type == "title" {
			titleProp = name
		}
	}
	if titleProp == "" {
		return nil, "", fmt.Errorf("database %s has no title property", databaseID)
	}

	return schema, titleProp, nil
}

// buildProperties maps payment fields onto whatever columns the
// database actually has, by name and declared type.
func buildProperties(schema map[string]string, titleProp string, detail *entity.PaymentDetail) map[string]any {
	properties := map[string]any{}

	title := detail.PayerName
	if title == "" {
		title = detail.PaymentID
	}
	properties[titleProp] = propertyValue("title", title)

	fields := map[string]string{
		"Email":      detail.PayerEmail,
		"Telefone":   detail.PayerPhone,
		"Phone":      detail.PayerPhone,
		"Payment ID": detail.PaymentID,
		"Status":     string(detail.Status),
		"Source":     detail.Provider,
	}

	for column, value := range fields {
		if value == "" {
			continue
		}
		if propType, ok := schema[column]; ok && propType != "title" {
			properties[column] = propertyValue(propType, value)
		}
	}

	amount := float64(detail.Amount) / 100
	for _, column := range []string{"Valor", "Amount"} {
		if propType, ok := schema[column]; ok && propType == "number" {
			properties[column] = map[string]any{"number": amount}
			break
		}
	}

	if detail.ApprovedAt != "" {
		if propType, ok := schema["Approved At"]; ok && propType == "date" {
			properties["Approved At"] = map[string]any{
				"date": map[string]string{"start": detail.ApprovedAt},
			}
		}
	}

	return properties
}

// propertyValue wraps a scalar in the JSON shape the property type
// wants. Unknown types fall back to rich text, which every column
// except title accepts as a best guess.
func propertyValue(propType, value string) map[string]any {
	switch propType {
	case "title":
		return map[string]any{
			"title": []map[string]any{
				{"text": map[string]string{"content": value}},
			},
		}
	case "email":
		return map[string]any{"email": value}
	case "phone_number":
		return map[string]any{"phone_number": value}
	case "select":
		return map[string]any{"select": map[string]string{"name": value}}
	case "url":
		return map[string]any{"url": value}
	case "date":
		return map[string]any{"date": map[string]string{"start": value}}
	default:
		return map[string]any{
			"rich_text": []map[string]any{
				{"text": map[string]string{"content": value}},
			},
		}
	}
}

func (n *Notion) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, n.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.Token)
	req.Header.Set("Notion-Version", _notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	return raw, nil
}
