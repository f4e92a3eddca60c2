// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package forge

import (
	"context"
	"fmt"
	"time"

	"github.com/gossamer-forge/gossamer/lib/record"
	"github.com/gossamer-forge/gossamer/lib/ref"
)

// Label is a label attached to an issue or pull request.
type Label struct {
	Name string `json:"name"`
}

// User identifies an account on the forge host. Forge accounts have
// no network identity; records converted from polled data carry the
// login in the payload and a zero author.
type User struct {
	Login string `json:"login"`
}

// Issue is an issue as returned by the forge REST API.
type Issue struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"` // "open" or "closed"
	Labels    []Label   `json:"labels"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PullRequest is a pull request as returned by the forge REST API.
type PullRequest struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"` // "open" or "closed"
	Merged    bool      `json:"merged"`
	MergedAt  time.Time `json:"merged_at"`
	Labels    []Label   `json:"labels"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions controls filtering and pagination for listing
// endpoints.
type ListOptions struct {
	State   string // "open", "closed", "all" (default: "open")
	PerPage int    // results per page (max 100, default 30)
}

func (options ListOptions) queryParams() string {
	query := ""
	if options.State != "" {
		query += "state=" + options.State + "&"
	}
	if options.PerPage > 0 {
		query += fmt.Sprintf("per_page=%d&", options.PerPage)
	}
	if query != "" {
		return query[:len(query)-1]
	}
	return ""
}

func buildListPath(basePath string, options ListOptions) string {
	query := options.queryParams()
	if query == "" {
		return basePath
	}
	return basePath + "?" + query
}

// ListIssues returns a page iterator over a repository's issues.
func (client *Client) ListIssues(owner, repo string, options ListOptions) *PageIterator[Issue] {
	return list[Issue](client, buildListPath(fmt.Sprintf("/repos/%s/%s/issues", owner, repo), options))
}

// ListPulls returns a page iterator over a repository's pull
// requests.
func (client *Client) ListPulls(owner, repo string, options ListOptions) *PageIterator[PullRequest] {
	return list[PullRequest](client, buildListPath(fmt.Sprintf("/repos/%s/%s/pulls", owner, repo), options))
}

// GetIssue retrieves a single issue by number.
func (client *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	var issue Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	if err := client.get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("getting issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return &issue, nil
}

// ToRecord converts a polled issue to a store record at the lowest
// source precedence. The external number is authoritative for this
// record and becomes its sequence number; collisions with locally
// assigned numbers are flagged at merge.
func (issue *Issue) ToRecord(container ref.Container) record.Record {
	r := record.Record{
		ID:         record.ExternalRecordID(issue.ID),
		Container:  container,
		Type:       record.Issue,
		CreatedAt:  issue.CreatedAt.Unix(),
		Number:     issue.Number,
		Title:      issue.Title,
		Body:       issue.Body,
		Source:     record.SourcePolled,
		Status:     polledStatus(issue.State, false),
		ExternalID: issue.ID,
	}
	for _, label := range issue.Labels {
		r.Labels = append(r.Labels, label.Name)
	}
	if issue.User.Login != "" {
		r.Payload = record.Payload{
			Kind:   record.PayloadStructured,
			Fields: map[string]string{"external_author": issue.User.Login},
		}
	}
	r.Fingerprint = record.Fingerprint(r.Title, r.Body)
	return r
}

// ToRecord converts a polled pull request to a store record.
func (pull *PullRequest) ToRecord(container ref.Container) record.Record {
	r := record.Record{
		ID:         record.ExternalRecordID(pull.ID),
		Container:  container,
		Type:       record.PullRequest,
		CreatedAt:  pull.CreatedAt.Unix(),
		Number:     pull.Number,
		Title:      pull.Title,
		Body:       pull.Body,
		Source:     record.SourcePolled,
		Status:     polledStatus(pull.State, pull.Merged),
		ExternalID: pull.ID,
	}
	for _, label := range pull.Labels {
		r.Labels = append(r.Labels, label.Name)
	}
	if pull.User.Login != "" {
		r.Payload = record.Payload{
			Kind:   record.PayloadStructured,
			Fields: map[string]string{"external_author": pull.User.Login},
		}
	}
	r.Fingerprint = record.Fingerprint(r.Title, r.Body)
	return r
}

// polledStatus maps the host's two-valued state (plus the merged
// flag) to a record status.
func polledStatus(state string, merged bool) record.Status {
	switch {
	case merged:
		return record.StatusMerged
	case state == "closed":
		return record.StatusClosed
	default:
		return record.StatusOpen
	}
}
