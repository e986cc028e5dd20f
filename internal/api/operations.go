// Package api provides typed split-specs operations over graphql.Client.
package api

import (
	"context"
	"fmt"

	"splitspecs/internal/cache"
	"splitspecs/internal/graphql"
)

const (
	addSessionMutation = `mutation AddSession($session: SessionInput!) {
  addSession(session: $session) {
    sessionId
    projectName
  }
}`

	nextSpecQuery = `query NextSpec($sessionId: String!) {
  nextSpec(sessionId: $sessionId)
}`

	projectQuery = `query Project($name: String!) {
  project(name: $name) {
    projectName
    latestSession
    sessions {
      __typename
      id
      start
      end
      backlog {
        file
        estimatedDuration
        start
        end
        passed
      }
    }
  }
}`
)

// SpecFileInput names one spec file of a new session.
type SpecFileInput struct {
	FilePath string `json:"filePath"`
}

// SessionInput registers a run of spec files for a project.
type SessionInput struct {
	ProjectName string          `json:"projectName"`
	SpecFiles   []SpecFileInput `json:"specFiles"`
}

// SessionInfo identifies a newly created session.
type SessionInfo struct {
	SessionID   string `json:"sessionId"`
	ProjectName string `json:"projectName"`
}

// Spec is one spec file of a session backlog. Times are Unix seconds.
type Spec struct {
	File              string `json:"file"`
	EstimatedDuration int64  `json:"estimatedDuration"`
	Start             int64  `json:"start"`
	End               int64  `json:"end"`
	Passed            bool   `json:"passed"`
}

// Session is a run of specs.
type Session struct {
	ID      string `json:"id"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Backlog []Spec `json:"backlog"`
}

// Project groups sessions by name.
type Project struct {
	ProjectName   string    `json:"projectName"`
	LatestSession *string   `json:"latestSession"`
	Sessions      []Session `json:"sessions"`
}

// AddSession creates a session with the given spec files.
func AddSession(ctx context.Context, c *graphql.Client, input SessionInput) (*SessionInfo, error) {
	resp, err := c.Mutate(ctx, addSessionMutation,
		map[string]any{"session": input},
		graphql.WithOperationName("AddSession"))
	if err := result(resp, err); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	var info SessionInfo
	if err := resp.Decode("addSession", &info); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	return &info, nil
}

// NextSpec returns the next spec file to run in a session.
func NextSpec(ctx context.Context, c *graphql.Client, sessionID string) (string, error) {
	resp, err := c.Query(ctx, nextSpecQuery,
		map[string]any{"sessionId": sessionID},
		graphql.WithOperationName("NextSpec"))
	if err := result(resp, err); err != nil {
		return "", fmt.Errorf("next spec: %w", err)
	}
	var next string
	if err := resp.Decode("nextSpec", &next); err != nil {
		return "", fmt.Errorf("next spec: %w", err)
	}
	return next, nil
}

// GetProject returns a project and its sessions.
func GetProject(ctx context.Context, c *graphql.Client, name string) (*Project, error) {
	resp, err := c.Query(ctx, projectQuery,
		map[string]any{"name": name},
		graphql.WithOperationName("Project"))
	if err := result(resp, err); err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	var p Project
	if err := resp.Decode("project", &p); err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	return &p, nil
}

// IsLoggedIn reads Query.isLoggedIn from the cache; it never goes to the network.
func IsLoggedIn(c *graphql.Client) bool {
	v, _ := c.ReadQueryField(cache.IsLoggedInField)
	b, _ := v.(bool)
	return b
}

func result(resp *graphql.Response, err error) error {
	if err != nil {
		return err
	}
	return resp.Err()
}
