/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenSignVerify(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	sub, err := verifyToken("s3cret", tok)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := verifyToken("other", tok); err == nil {
		t.Fatal("expected bad signature")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := verifyToken("s3cret", tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "nodot", "a.b.c", "!!.!!"} {
		if _, err := verifyToken("s3cret", tok); err == nil {
			t.Fatalf("expected error for %q", tok)
		}
	}
}

func TestWithAuthMiddleware(t *testing.T) {
	var gotSub string
	h := withAuth("s3cret", func(w http.ResponseWriter, r *http.Request, sub string) {
		gotSub = sub
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	// missing token
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d without token", resp.StatusCode)
	}

	// valid token
	tok, err := signToken("s3cret", "bob", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d with token", resp.StatusCode)
	}
	if gotSub != "bob" {
		t.Fatalf("subject = %q", gotSub)
	}
}

func TestClientFetchScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/7/script" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("auth header = %q", got)
		}
		writeJSON(w, http.StatusOK, ScriptEnvelope{
			DocumentID: 7,
			Revision:   3,
			Note:       "blue pages",
			Script:     "INT. KITCHEN - DAY\n",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	env, err := c.FetchScript(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchScript: %v", err)
	}
	if env.Revision != 3 || !strings.HasPrefix(env.Script, "INT. KITCHEN") {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestClientPushScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("method = %s", r.Method)
		}
		var body struct {
			Script string `json:"script"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Script == "" || body.Note != "second pass" {
			t.Fatalf("body = %+v", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"document_id": 7, "revision": 4})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	rev, err := c.PushScript(context.Background(), 7, "FADE IN:\n", "second pass")
	if err != nil {
		t.Fatalf("PushScript: %v", err)
	}
	if rev != 4 {
		t.Fatalf("revision = %d", rev)
	}
}

func TestClientListDocumentsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, context.DeadlineExceeded)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if _, err := c.ListDocuments(context.Background()); err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestClientFetchToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token" || r.Method != http.MethodPost {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "issued"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	tok, err := c.FetchToken(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchToken: %v", err)
	}
	if tok != "issued" || c.Token != "issued" {
		t.Fatalf("token = %q client token = %q", tok, c.Token)
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("v=%d err=%v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatal("expected parse error")
	}
}
