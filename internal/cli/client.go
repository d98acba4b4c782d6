package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// DeployResponse — deploy из API агента.
type DeployResponse struct {
	ID         string         `json:"id"`
	Spec       map[string]any `json:"spec"`
	Status     string         `json:"status"`
	NotBefore  string         `json:"not_before,omitempty"`
	StartedAt  string         `json:"started_at,omitempty"`
	FinishedAt string         `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`
	Steps      []StepResponse `json:"steps,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// StepResponse — результат шага из API агента.
type StepResponse struct {
	Name     string `json:"name"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// ServiceName достаёт имя службы из spec.
func (d *DeployResponse) ServiceName() string {
	name, _ := d.Spec["service_name"].(string)
	return name
}

// --- Request types ---

// CreateDeployRequest — создание deploy на агенте.
// Пустые поля — значения по умолчанию агента.
type CreateDeployRequest struct {
	AppDir      string `json:"app_dir,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	PythonPath  string `json:"python_path,omitempty"`
	EntryPoint  string `json:"entry_point,omitempty"`
	Port        int    `json:"port,omitempty"`
	NSSMURL     string `json:"nssm_url,omitempty"`
	Description string `json:"description,omitempty"`
	Window      string `json:"window,omitempty"`
}

// ListDeploysOpts — параметры фильтрации deploys.
type ListDeploysOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для API агента Conveyor.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент для API агента.
// Пустой token — запросы без авторизации.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Deploys ---

// CreateDeploy создаёт новый deploy на агенте.
func (c *Client) CreateDeploy(req CreateDeployRequest) (*DeployResponse, error) {
	var deploy DeployResponse
	err := c.post("/api/v1/deploys", req, &deploy)
	return &deploy, err
}

// GetDeploy возвращает deploy по ID.
func (c *Client) GetDeploy(id string) (*DeployResponse, error) {
	var deploy DeployResponse
	err := c.get("/api/v1/deploys/"+id, &deploy)
	return &deploy, err
}

// ListDeploys возвращает историю deploys.
func (c *Client) ListDeploys(opts ListDeploysOpts) ([]DeployResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var deploys []DeployResponse
	err := c.list("/api/v1/deploys", params, &deploys)
	return deploys, err
}

// WaitDeploy опрашивает deploy до терминального статуса.
func (c *Client) WaitDeploy(id string, interval, timeout time.Duration) (*DeployResponse, error) {
	deadline := time.Now().Add(timeout)

	for {
		deploy, err := c.GetDeploy(id)
		if err != nil {
			return nil, err
		}
		if deploy.Status == "SUCCEEDED" || deploy.Status == "FAILED" {
			return deploy, nil
		}
		if time.Now().After(deadline) {
			return deploy, fmt.Errorf("deploy %s still %s after %s", id, deploy.Status, timeout)
		}
		time.Sleep(interval)
	}
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
