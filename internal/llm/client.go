// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package llm wraps the OpenCode SDK client used for plan generation. The
// planner only depends on the PromptClient interface so tests can substitute
// a canned model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sst/opencode-sdk-go"
	"github.com/sst/opencode-sdk-go/option"
)

// PromptOptions tunes one prompt call.
type PromptOptions struct {
	Title     string
	SessionID string // reuse an existing session when set
	Model     string
	Agent     string
}

// ResultPart is one part of a model response.
type ResultPart struct {
	Type string
	Text string
}

// PromptResult is the response to one prompt.
type PromptResult struct {
	SessionID string
	MessageID string
	Parts     []ResultPart
}

// Text joins the text parts of the response.
func (r *PromptResult) Text() string {
	var b strings.Builder
	for _, p := range r.Parts {
		if p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// PromptClient is the surface the planner needs from a model backend.
type PromptClient interface {
	ExecutePrompt(ctx context.Context, prompt string, opts *PromptOptions) (*PromptResult, error)
}

// Client talks to a local OpenCode server instance over its SDK.
type Client struct {
	sdk     *opencode.Client
	baseURL string
}

// NewClient creates a client for the OpenCode server at baseURL. Local
// connections need no API key.
func NewClient(baseURL string) *Client {
	return &Client{
		sdk:     opencode.NewClient(option.WithBaseURL(baseURL)),
		baseURL: baseURL,
	}
}

// BaseURL returns the server address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExecutePrompt creates (or reuses) a session, sends the prompt, and
// collects the text parts of the reply.
func (c *Client) ExecutePrompt(ctx context.Context, prompt string, opts *PromptOptions) (*PromptResult, error) {
	if opts == nil {
		opts = &PromptOptions{}
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		session, err := c.sdk.Session.New(ctx, opencode.SessionNewParams{
			Title: opencode.F(opts.Title),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = session.ID
	}

	parts := []opencode.SessionPromptParamsPartUnion{
		opencode.TextPartInputParam{
			Type: opencode.F(opencode.TextPartInputTypeText),
			Text: opencode.F(prompt),
		},
	}
	promptParams := opencode.SessionPromptParams{
		Parts: opencode.F(parts),
	}
	if opts.Model != "" {
		promptParams.Model = opencode.F(opencode.SessionPromptParamsModel{
			ModelID: opencode.F(opts.Model),
		})
	}
	if opts.Agent != "" {
		promptParams.Agent = opencode.F(opts.Agent)
	}

	message, err := c.sdk.Session.Prompt(ctx, sessionID, promptParams)
	if err != nil {
		return nil, fmt.Errorf("failed to send prompt: %w", err)
	}

	result := &PromptResult{
		SessionID: sessionID,
		MessageID: message.Info.ID,
		Parts:     make([]ResultPart, 0, len(message.Parts)),
	}
	for _, part := range message.Parts {
		rp := ResultPart{Type: string(part.Type)}
		if part.Type == opencode.PartTypeText {
			rp.Text = part.Text
		}
		result.Parts = append(result.Parts, rp)
	}
	return result, nil
}
