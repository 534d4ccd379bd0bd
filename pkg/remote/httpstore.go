// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-retryablehttp"
	hcversion "github.com/hashicorp/go-version"
	"golang.org/x/oauth2"

	"github.com/val-town/vt/pkg/vterrors"
)

// MinSupportedAPIVersion is the oldest X-Vt-Api-Version the client will
// speak to. Responses advertising a lower major version are rejected with
// a Transport error rather than silently misbehaving.
var MinSupportedAPIVersion = hcversion.Must(hcversion.NewVersion("1.0.0"))

// HTTPStore implements Store against the real Val Town REST API.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore builds an HTTPStore authenticated with the given API key.
// Retries are handled by retryablehttp with its default exponential backoff
// and default policy, which retries connection errors, 429s and 5xx
// responses for every request method, not only GETs.
func NewHTTPStore(baseURL, apiKey string) *HTTPStore {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	oauthClient := oauth2.NewClient(context.Background(), ts)

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = oauthClient
	retryClient.Logger = nil

	return &HTTPStore{
		baseURL: baseURL,
		client:  retryClient.StandardClient(),
	}
}

func (s *HTTPStore) url(format string, a ...interface{}) string {
	return s.baseURL + fmt.Sprintf(format, a...)
}

func encodeQuery(v interface{}) (string, error) {
	values, err := query.Values(v)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

func (s *HTTPStore) do(ctx context.Context, method, rawURL string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &vterrors.Transport{Op: method + " " + rawURL, Message: err.Error()}
	}
	defer resp.Body.Close()

	if v := resp.Header.Get("X-Vt-Api-Version"); v != "" {
		if remoteVer, err := hcversion.NewVersion(v); err == nil {
			if remoteVer.Segments()[0] < MinSupportedAPIVersion.Segments()[0] {
				return &vterrors.Transport{Op: method + " " + rawURL, Message: "unsupported API version " + v}
			}
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &vterrors.Transport{Op: method + " " + rawURL, Message: err.Error()}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &vterrors.NotFound{Resource: rawURL}
	case http.StatusConflict:
		return &vterrors.Conflict{Resource: rawURL, Reason: string(respBody)}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &vterrors.AuthMissing{Reason: string(respBody)}
	}
	if resp.StatusCode >= 300 {
		return &vterrors.Transport{Op: method + " " + rawURL, Status: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (s *HTTPStore) RetrieveVal(ctx context.Context, valID string) (*Val, error) {
	var v Val
	if err := s.do(ctx, http.MethodGet, s.url("/v1/vals/%s", valID), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *HTTPStore) CreateVal(ctx context.Context, params CreateValParams) (*Val, error) {
	body, _ := json.Marshal(params)
	var v Val
	if err := s.do(ctx, http.MethodPost, s.url("/v1/vals"), bytes.NewReader(body), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *HTTPStore) DeleteVal(ctx context.Context, valID string) error {
	return s.do(ctx, http.MethodDelete, s.url("/v1/vals/%s", valID), nil, nil)
}

func (s *HTTPStore) ListBranches(ctx context.Context, valID string) ([]*Branch, error) {
	var branches []*Branch
	if err := s.do(ctx, http.MethodGet, s.url("/v1/vals/%s/branches", valID), nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

func (s *HTTPStore) RetrieveBranch(ctx context.Context, valID, branchID string) (*Branch, error) {
	var b Branch
	if err := s.do(ctx, http.MethodGet, s.url("/v1/vals/%s/branches/%s", valID, branchID), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *HTTPStore) CreateBranch(ctx context.Context, valID string, params CreateBranchParams) (*Branch, error) {
	body, _ := json.Marshal(params)
	var b Branch
	if err := s.do(ctx, http.MethodPost, s.url("/v1/vals/%s/branches", valID), bytes.NewReader(body), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *HTTPStore) DeleteBranch(ctx context.Context, valID, branchID string) error {
	return s.do(ctx, http.MethodDelete, s.url("/v1/vals/%s/branches/%s", valID, branchID), nil, nil)
}

func (s *HTTPStore) ListFiles(ctx context.Context, valID string, params ListParams) ([]*ValItem, error) {
	qs, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	var items []*ValItem
	if err := s.do(ctx, http.MethodGet, s.url("/v1/vals/%s/files?%s", valID, qs), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *HTTPStore) GetFileContent(ctx context.Context, valID string, params GetContentParams) ([]byte, error) {
	qs, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url("/v1/vals/%s/files/content?%s", valID, qs), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &vterrors.Transport{Op: "get_content", Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &vterrors.Transport{Op: "get_content", Message: err.Error()}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, &vterrors.NotFound{Resource: "file", Path: params.Path}
	case http.StatusConflict:
		return nil, &vterrors.Conflict{Resource: "file", Reason: string(data)}
	}
	if resp.StatusCode >= 300 {
		return nil, &vterrors.Transport{Op: "get_content", Status: resp.StatusCode, Message: string(data)}
	}
	return data, nil
}

func (s *HTTPStore) CreateFile(ctx context.Context, valID string, params CreateFileParams) (*ValItem, error) {
	body, _ := json.Marshal(params)
	var item ValItem
	if err := s.do(ctx, http.MethodPost, s.url("/v1/vals/%s/files", valID), bytes.NewReader(body), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *HTTPStore) UpdateFile(ctx context.Context, valID string, params UpdateFileParams) error {
	body, _ := json.Marshal(params)
	return s.do(ctx, http.MethodPatch, s.url("/v1/vals/%s/files", valID), bytes.NewReader(body), nil)
}

func (s *HTTPStore) DeleteFile(ctx context.Context, valID string, params DeleteFileParams) error {
	qs := url.Values{}
	qs.Set("path", params.Path)
	qs.Set("branch_id", params.BranchID)
	qs.Set("recursive", strconv.FormatBool(params.Recursive))
	return s.do(ctx, http.MethodDelete, s.url("/v1/vals/%s/files?%s", valID, qs.Encode()), nil, nil)
}

func (s *HTTPStore) ResolveAlias(ctx context.Context, username, valName string) (*Val, error) {
	var v Val
	if err := s.do(ctx, http.MethodGet, s.url("/v1/alias/%s/%s", username, valName), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *HTTPStore) Profile(ctx context.Context) (*UserProfile, error) {
	var p UserProfile
	if err := s.do(ctx, http.MethodGet, s.url("/v1/me"), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ Store = (*HTTPStore)(nil)
