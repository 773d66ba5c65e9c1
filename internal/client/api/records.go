package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

// SelectAll walks every page of table.
func (c *Client) SelectAll(ctx context.Context, table string, filter remote.Filter) ([]json.RawMessage, error) {
	var records []json.RawMessage

	for offset := 0; ; {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("offset", strconv.Itoa(offset))
		if filter.ActiveOnly {
			query.Set("active", "true")
		}

		var page api.RecordListResponse
		if err := c.doRequest(ctx, http.MethodGet, tablePath(table)+"?"+query.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("select %s failed: %w", table, err)
		}

		records = append(records, page.Records...)
		offset += len(page.Records)
		if len(page.Records) == 0 || offset >= page.Total {
			return records, nil
		}
	}
}

// Insert создает запись и возвращает её серверную версию
func (c *Client) Insert(ctx context.Context, table string, record json.RawMessage) (json.RawMessage, error) {
	var created json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, tablePath(table), record, &created); err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", table, err)
	}
	return created, nil
}

// Update применяет частичное обновление записи
func (c *Client) Update(ctx context.Context, table, id string, patch json.RawMessage, expectedVersion int64) (json.RawMessage, error) {
	req := api.UpdateRequest{Patch: patch, ExpectedVersion: expectedVersion}

	var updated json.RawMessage
	if err := c.doRequest(ctx, http.MethodPatch, recordPath(table, id), req, &updated); err != nil {
		return nil, fmt.Errorf("update %s/%s failed: %w", table, id, err)
	}
	return updated, nil
}

// Delete удаляет запись
func (c *Client) Delete(ctx context.Context, table, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, recordPath(table, id), nil, nil); err != nil {
		return fmt.Errorf("delete %s/%s failed: %w", table, id, err)
	}
	return nil
}

func tablePath(table string) string {
	return api.PathTables + "/" + url.PathEscape(table) + "/records"
}

func recordPath(table, id string) string {
	return tablePath(table) + "/" + url.PathEscape(id)
}
