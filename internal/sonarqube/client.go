package sonarqube

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultConnTimeoutSec       = 10
	defaultMaxIdleConns         = 100
	defaultMaxConnsPerHost      = 100
	defaultMaxIddleConnsPerHost = 100

	apiPathSystemStatus    = "/api/system/status"
	apiPathProjectsSearch  = "/api/projects/search"
	apiPathProjectStatus   = "/api/qualitygates/project_status"
	apiPathProjectAnalyses = "/api/project_analyses/search"

	// DefaultPageSize is the page size used when walking /api/projects/search.
	DefaultPageSize = 500

	// DefaultHistoryLimit caps how many analyses are resolved per project.
	DefaultHistoryLimit = 10
)

// Client is the SonarQube API client. All calls are synchronous; the
// aggregation layer drives them one project at a time.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a new API client setting the http attributes to improve
// the connection reuse. An empty token is a configuration error: the server
// rejects anonymous access to the quality-gate endpoints.
func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("SonarQube token is empty, set the SONARQUBE_REPORT_TOKEN environment variable")
	}
	log.Debugf("using SonarQube token: %s", maskToken(token))

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = defaultMaxIdleConns
	t.MaxConnsPerHost = defaultMaxConnsPerHost
	t.MaxIdleConnsPerHost = defaultMaxIddleConnsPerHost

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout:   defaultConnTimeoutSec * time.Second,
			Transport: t,
		},
	}, nil
}

// BaseURL returns the server URL with any trailing slash stripped.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckConnection probes /api/system/status. A failure here aborts the run
// before any report data is fetched.
func (c *Client) CheckConnection() error {
	var status struct {
		ID      string `json:"id"`
		Version string `json:"version"`
		Status  string `json:"status"`
	}
	if err := c.get(apiPathSystemStatus, nil, &status); err != nil {
		return errors.Wrapf(err, "could not connect to SonarQube server at %s", c.baseURL)
	}
	log.Infof("connected to SonarQube server at %s (version %s, status %s)", c.baseURL, status.Version, status.Status)
	return nil
}

// SearchProjects walks /api/projects/search page by page and returns every
// project. Pagination stops on an empty page or a page shorter than the
// requested page size.
func (c *Client) SearchProjects() ([]Component, error) {
	var projects []Component
	page := 1

	for {
		params := url.Values{}
		params.Add("p", fmt.Sprintf("%d", page))
		params.Add("ps", fmt.Sprintf("%d", DefaultPageSize))

		res := searchProjectsResponse{}
		if err := c.get(apiPathProjectsSearch, params, &res); err != nil {
			return nil, err
		}
		if len(res.Components) == 0 {
			log.Debugf("no more projects found on page %d", page)
			break
		}
		log.Debugf("found %d projects on page %d", len(res.Components), page)
		projects = append(projects, res.Components...)

		if len(res.Components) < DefaultPageSize {
			break
		}
		page++
	}

	log.Infof("retrieved %d projects from SonarQube", len(projects))
	return projects, nil
}

// ProjectStatus returns the current quality-gate verdict and conditions for
// a project key.
func (c *Client) ProjectStatus(projectKey string) (*ProjectStatus, error) {
	params := url.Values{}
	params.Add("projectKey", projectKey)

	res := projectStatusResponse{}
	if err := c.get(apiPathProjectStatus, params, &res); err != nil {
		return nil, err
	}
	return &res.ProjectStatus, nil
}

// ProjectAnalyses returns up to max analyses for a project, newest first.
func (c *Client) ProjectAnalyses(projectKey string, max int) ([]Analysis, error) {
	params := url.Values{}
	params.Add("project", projectKey)
	params.Add("ps", fmt.Sprintf("%d", max))

	res := projectAnalysesResponse{}
	if err := c.get(apiPathProjectAnalyses, params, &res); err != nil {
		return nil, err
	}
	return res.Analyses, nil
}

// AnalysisStatus returns the point-in-time quality-gate verdict of a single
// analysis.
func (c *Client) AnalysisStatus(analysisID string) (*ProjectStatus, error) {
	params := url.Values{}
	params.Add("analysisId", analysisID)

	res := projectStatusResponse{}
	if err := c.get(apiPathProjectStatus, params, &res); err != nil {
		return nil, err
	}
	return &res.ProjectStatus, nil
}

// GateHistory resolves the quality-gate history of a project by fetching its
// analyses and the verdict of each one. History is best-effort enrichment:
// analyses without a key are skipped silently, and a failed verdict lookup
// drops that single point instead of failing the caller.
func (c *Client) GateHistory(projectKey string, max int) ([]HistoryEntry, error) {
	analyses, err := c.ProjectAnalyses(projectKey, max)
	if err != nil {
		return nil, err
	}

	var history []HistoryEntry
	for _, analysis := range analyses {
		if analysis.Key == "" {
			continue
		}
		status, err := c.AnalysisStatus(analysis.Key)
		if err != nil {
			log.Errorf("error getting quality gate status for analysis %s: %v", analysis.Key, err)
			continue
		}
		if status.Status == "" {
			continue
		}
		history = append(history, HistoryEntry{
			Date:   analysis.Date,
			Status: status.Status,
		})
	}
	return history, nil
}

// get performs an authenticated GET and decodes the JSON payload into out.
func (c *Client) get(endpoint string, params url.Values, out interface{}) error {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("malformed URL: %+v", err)
	}
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("couldn't create the request: %+v", err)
	}
	// SonarQube tokens are presented as basic auth with an empty password.
	req.SetBasicAuth(c.token, "")

	log.Debugf("GET %s", endpoint)
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("couldn't call URL %s: %+v", reqURL.String(), err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("couldn't read response body: %+v", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("invalid status code %d from %s: %s", res.StatusCode, endpoint, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("couldn't unmarshal response body: %+v \nBody: %s", err, string(body))
	}
	return nil
}

// maskToken hides the middle of the token so debug logs never leak it.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
