package vercel

import (
	"encoding/json"
	"time"
)

type Project struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Link              *ProjectLink       `json:"link,omitempty"`
	Targets           *ProjectTargets    `json:"targets,omitempty"`
	LatestDeployments []LatestDeployment `json:"latestDeployments,omitempty"`
}

type ProjectLink struct {
	Type string `json:"type"`
	Org  string `json:"org,omitempty"`
	Repo string `json:"repo,omitempty"`
}

type ProjectTargets struct {
	Production *ProductionTarget `json:"production,omitempty"`
}

type ProductionTarget struct {
	Alias []string `json:"alias,omitempty"`
}

type LatestDeployment struct {
	URL string `json:"url,omitempty"`
}

// ProductionURL returns the first production alias, falling back to the
// latest deployment URL. Empty when neither is known.
func (p Project) ProductionURL() string {
	if p.Targets != nil && p.Targets.Production != nil && len(p.Targets.Production.Alias) > 0 {
		return "https://" + p.Targets.Production.Alias[0]
	}
	if len(p.LatestDeployments) > 0 && p.LatestDeployments[0].URL != "" {
		return "https://" + p.LatestDeployments[0].URL
	}
	return ""
}

// GitHubRepo returns "org/repo" when the project is linked to GitHub.
func (p Project) GitHubRepo() string {
	if p.Link == nil || p.Link.Type != "github" || p.Link.Org == "" || p.Link.Repo == "" {
		return ""
	}
	return p.Link.Org + "/" + p.Link.Repo
}

type Deployment struct {
	// UID is set on list responses, ID on create responses.
	UID          string          `json:"uid,omitempty"`
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	State        string          `json:"state,omitempty"`
	ReadyState   string          `json:"readyState,omitempty"`
	Created      int64           `json:"created,omitempty"`
	Target       *string         `json:"target,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	GitSource    json.RawMessage `json:"gitSource,omitempty"`
}

// Identifier returns the deployment's id regardless of which API shape it
// came from.
func (d Deployment) Identifier() string {
	if d.ID != "" {
		return d.ID
	}
	return d.UID
}

// CurrentState returns the deployment state, preferring state over readyState.
func (d Deployment) CurrentState() string {
	if d.State != "" {
		return d.State
	}
	return d.ReadyState
}

// CreatedAt converts the millisecond timestamp.
func (d Deployment) CreatedAt() time.Time {
	return time.UnixMilli(d.Created).UTC()
}

type deploymentList struct {
	Deployments []Deployment `json:"deployments"`
}

type projectList struct {
	Projects []Project `json:"projects"`
}

// CreateDeploymentRequest is the body of a redeploy request.
type CreateDeploymentRequest struct {
	Name      string          `json:"name"`
	Project   string          `json:"project"`
	Target    string          `json:"target"`
	GitSource json.RawMessage `json:"gitSource,omitempty"`
}

// DeploymentQuery filters the deployment listing.
type DeploymentQuery struct {
	ProjectID string
	State     string
	Limit     int
}
