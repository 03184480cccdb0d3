/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the sync service. The desktop tooling uses it read-mostly:
// fetching a shared draft to diff against the local script, and pushing a
// revision when the writer publishes.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a sync client. baseURL may include a trailing slash.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Document is a shared screenplay as listed by the service.
type Document struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Revision  int64     `json:"revision"`
}

// ScriptEnvelope carries the latest pushed script text of a document.
type ScriptEnvelope struct {
	DocumentID int64  `json:"document_id"`
	Revision   int64  `json:"revision"`
	Note       string `json:"note"`
	CreatedAt  string `json:"created_at"`
	Script     string `json:"script"`
}

// FetchToken requests a bearer token and stores it on the client.
func (c *Client) FetchToken(ctx context.Context, subject string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]any{"subject": subject}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", body, &resp); err != nil {
		return "", err
	}
	c.Token = resp.Token
	return resp.Token, nil
}

// ListDocuments returns the shared documents.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var list []Document
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchScript gets the latest revision of a shared document; its Script
// field is what the diff view compares against.
func (c *Client) FetchScript(ctx context.Context, documentID int64) (*ScriptEnvelope, error) {
	var env ScriptEnvelope
	path := fmt.Sprintf("/api/documents/%d/script", documentID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushScript publishes the local script text as a new revision.
func (c *Client) PushScript(ctx context.Context, documentID int64, script, note string) (int64, error) {
	var resp struct {
		Revision int64 `json:"revision"`
	}
	path := fmt.Sprintf("/api/documents/%d/script", documentID)
	body := map[string]any{"script": script, "note": note}
	if err := c.doJSON(ctx, http.MethodPut, path, body, &resp); err != nil {
		return 0, err
	}
	return resp.Revision, nil
}
