// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package seeds fetches historical bug reports from type checker
// GitHub repositories and extracts the Python snippets embedded in
// them. The snippets seed generation prompts with real divergence
// material.
package seeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

const (
	defaultBaseURL  = "https://api.github.com"
	defaultPerPage  = 50
	defaultMaxPages = 2
	defaultPerRepo  = 5

	// minSnippetLength filters out fragments too short to seed a
	// prompt usefully.
	minSnippetLength = 50

	// shortBodyThreshold triggers a full-issue fetch when the listing
	// body looks truncated.
	shortBodyThreshold = 100
)

// Repos maps checker names to the GitHub repositories whose issues are
// crawled for seeds. zuban has no public issue tracker.
var Repos = map[string]string{
	"mypy":    "python/mypy",
	"pyrefly": "facebook/pyrefly",
	"ty":      "astral-sh/ty",
}

// HTTPClient abstracts the HTTP transport for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// issuePayload mirrors the fields of the GitHub issues API response
// that seed extraction needs.
type issuePayload struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
	Labels  []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

// GitHubSource fetches seeds from type checker issue trackers. It
// implements the pipeline's SeedSource capability.
//
// A missing GITHUB_TOKEN is tolerated; requests then run against the
// unauthenticated rate limit.
//
// Thread Safety: Safe for concurrent use.
type GitHubSource struct {
	client     HTTPClient
	limiter    *rate.Limiter
	baseURL    string
	token      string
	maxPerRepo int
	repos      map[string]string
	shuffle    func([]datatypes.Seed)
}

// SourceOption configures the GitHubSource.
type SourceOption func(*GitHubSource)

// WithHTTPClient injects the HTTP transport. Intended for tests.
func WithHTTPClient(client HTTPClient) SourceOption {
	return func(s *GitHubSource) {
		s.client = client
	}
}

// WithBaseURL overrides the GitHub API base URL. Intended for tests.
func WithBaseURL(baseURL string) SourceOption {
	return func(s *GitHubSource) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithMaxPerRepo bounds how many seeds one repository contributes.
func WithMaxPerRepo(n int) SourceOption {
	return func(s *GitHubSource) {
		if n > 0 {
			s.maxPerRepo = n
		}
	}
}

// WithRepos overrides the crawled repository set. Intended for tests.
func WithRepos(repos map[string]string) SourceOption {
	return func(s *GitHubSource) {
		s.repos = repos
	}
}

// WithoutShuffle disables result shuffling for deterministic tests.
func WithoutShuffle() SourceOption {
	return func(s *GitHubSource) {
		s.shuffle = func([]datatypes.Seed) {}
	}
}

// NewGitHubSource creates a source with defaults: the standard API
// endpoint, a token from GITHUB_TOKEN when present, and a client-side
// rate limit well under GitHub's authenticated quota.
func NewGitHubSource(opts ...SourceOption) *GitHubSource {
	s := &GitHubSource{
		client:     &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
		baseURL:    defaultBaseURL,
		token:      os.Getenv("GITHUB_TOKEN"),
		maxPerRepo: defaultPerRepo,
		repos:      Repos,
		shuffle: func(seeds []datatypes.Seed) {
			rand.Shuffle(len(seeds), func(i, j int) {
				seeds[i], seeds[j] = seeds[j], seeds[i]
			})
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchSeeds implements the SeedSource interface. Repositories that
// fail to respond are skipped with a warning; the fetch only fails as
// a whole on context cancellation.
func (s *GitHubSource) FetchSeeds(ctx context.Context) ([]datatypes.Seed, error) {
	var all []datatypes.Seed

	for checker, repo := range s.repos {
		seeds, err := s.fetchRepoSeeds(ctx, repo)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Failed to fetch seeds from repository",
				slog.String("checker", checker),
				slog.String("repo", repo),
				slog.String("error", err.Error()),
			)
			continue
		}
		slog.Info("Fetched seeds from repository",
			slog.String("repo", repo),
			slog.Int("count", len(seeds)),
		)
		all = append(all, seeds...)
	}

	s.shuffle(all)
	return all, nil
}

// fetchRepoSeeds crawls one repository's closed bug issues and
// extracts code snippets until the per-repo cap is reached.
func (s *GitHubSource) fetchRepoSeeds(ctx context.Context, repo string) ([]datatypes.Seed, error) {
	issues, err := s.listIssues(ctx, repo)
	if err != nil {
		return nil, err
	}

	var seeds []datatypes.Seed
	for _, issue := range issues {
		if len(seeds) >= s.maxPerRepo {
			break
		}

		labels := make([]string, len(issue.Labels))
		for i, l := range issue.Labels {
			labels[i] = l.Name
		}
		isFP, isFN := classifyLabels(labels)

		body := issue.Body
		if len(body) < shortBodyThreshold {
			// The listing may truncate bodies; fetch the full issue.
			full, err := s.fetchIssueBody(ctx, repo, issue.Number)
			if err == nil && full != "" {
				body = full
			}
		}

		for _, code := range ExtractPythonCode(body) {
			if len(seeds) >= s.maxPerRepo {
				break
			}
			seeds = append(seeds, datatypes.Seed{
				Source:        code,
				Repo:          repo,
				IssueNumber:   issue.Number,
				IssueTitle:    issue.Title,
				IssueURL:      issue.HTMLURL,
				Labels:        labels,
				FalsePositive: isFP,
				FalseNegative: isFN,
			})
		}
	}
	return seeds, nil
}

// listIssues fetches up to defaultMaxPages pages of closed bug-labeled
// issues, most recently updated first.
func (s *GitHubSource) listIssues(ctx context.Context, repo string) ([]issuePayload, error) {
	var all []issuePayload

	for page := 1; page <= defaultMaxPages; page++ {
		params := url.Values{
			"state":     {"closed"},
			"labels":    {"bug"},
			"per_page":  {strconv.Itoa(defaultPerPage)},
			"page":      {strconv.Itoa(page)},
			"sort":      {"updated"},
			"direction": {"desc"},
		}
		endpoint := fmt.Sprintf("%s/repos/%s/issues?%s", s.baseURL, repo, params.Encode())

		var issues []issuePayload
		if err := s.getJSON(ctx, endpoint, &issues); err != nil {
			return nil, err
		}
		if len(issues) == 0 {
			break
		}
		all = append(all, issues...)
	}
	return all, nil
}

// fetchIssueBody fetches the full body of a single issue.
func (s *GitHubSource) fetchIssueBody(ctx context.Context, repo string, number int) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/issues/%d", s.baseURL, repo, number)
	var issue issuePayload
	if err := s.getJSON(ctx, endpoint, &issue); err != nil {
		return "", err
	}
	return issue.Body, nil
}

// getJSON performs one rate-limited GET and decodes the response.
func (s *GitHubSource) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("GitHub request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GitHub returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding GitHub response: %w", err)
	}
	return nil
}
