// Package directory is the HTTP client for the survey platform's lookup
// endpoints: departments by hazard group, job functions by department, and
// the per-campaign CPF availability check. The endpoints are external
// collaborators; this package only speaks their GET+JSON contracts.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseBytes caps collaborator response bodies.
const maxResponseBytes = 1 << 20

const defaultTimeout = 10 * time.Second

// Option is one entry of a dependent select list.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Availability is the CPF check verdict.
type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// Config holds the collaborator endpoint URLs.
type Config struct {
	DepartmentsURL  string
	JobFunctionsURL string
	CPFCheckURL     string
	HTTPClient      *http.Client
}

// Client queries the platform lookup endpoints.
type Client struct {
	departmentsURL  string
	jobFunctionsURL string
	cpfCheckURL     string
	httpClient      *http.Client
	tracer          trace.Tracer
}

// New creates a directory client. A default HTTP client with a request
// timeout is used when none is supplied.
func New(cfg Config) (*Client, error) {
	for name, raw := range map[string]string{
		"departments":   cfg.DepartmentsURL,
		"job functions": cfg.JobFunctionsURL,
		"cpf check":     cfg.CPFCheckURL,
	} {
		if raw == "" {
			return nil, fmt.Errorf("%s url is required", name)
		}
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("parse %s url: %w", name, err)
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		departmentsURL:  cfg.DepartmentsURL,
		jobFunctionsURL: cfg.JobFunctionsURL,
		cpfCheckURL:     cfg.CPFCheckURL,
		httpClient:      httpClient,
		tracer:          otel.Tracer("nr01facil/directory"),
	}, nil
}

// Departments fetches the departments belonging to a hazard group.
func (c *Client) Departments(ctx context.Context, gheID int64) ([]Option, error) {
	ctx, span := c.tracer.Start(ctx, "directory.departments",
		trace.WithAttributes(attribute.Int64("ghe.id", gheID)))
	defer span.End()

	var payload struct {
		Departments []Option `json:"departments"`
	}
	err := c.getJSON(ctx, c.departmentsURL, url.Values{"ghe_id": {strconv.FormatInt(gheID, 10)}}, &payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch departments: %w", err)
	}
	span.SetAttributes(attribute.Int("options.count", len(payload.Departments)))
	return payload.Departments, nil
}

// JobFunctions fetches the job functions belonging to a department.
func (c *Client) JobFunctions(ctx context.Context, departmentID int64) ([]Option, error) {
	ctx, span := c.tracer.Start(ctx, "directory.job_functions",
		trace.WithAttributes(attribute.Int64("department.id", departmentID)))
	defer span.End()

	var payload struct {
		JobFunctions []Option `json:"job_functions"`
	}
	err := c.getJSON(ctx, c.jobFunctionsURL, url.Values{"department_id": {strconv.FormatInt(departmentID, 10)}}, &payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch job functions: %w", err)
	}
	span.SetAttributes(attribute.Int("options.count", len(payload.JobFunctions)))
	return payload.JobFunctions, nil
}

// CheckCPF asks whether a normalized CPF may still answer the campaign.
func (c *Client) CheckCPF(ctx context.Context, digits string) (Availability, error) {
	ctx, span := c.tracer.Start(ctx, "directory.cpf_check")
	defer span.End()

	var verdict Availability
	err := c.getJSON(ctx, c.cpfCheckURL, url.Values{"cpf": {digits}}, &verdict)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Availability{}, fmt.Errorf("check cpf: %w", err)
	}
	span.SetAttributes(attribute.Bool("cpf.available", verdict.Available))
	return verdict, nil
}

func (c *Client) getJSON(ctx context.Context, base string, query url.Values, target any) error {
	endpoint, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	merged := endpoint.Query()
	for key, values := range query {
		for _, value := range values {
			merged.Set(key, value)
		}
	}
	endpoint.RawQuery = merged.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	body := io.LimitReader(res.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
