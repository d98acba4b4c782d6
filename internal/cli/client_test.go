package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_CreateDeploy(t *testing.T) {
	var gotAuth string
	var gotBody CreateDeployRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/deploys" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":     "deadbeef-0000-0000-0000-000000000000",
				"status": "PENDING",
				"spec":   map[string]any{"service_name": "MyService"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	deploy, err := client.CreateDeploy(CreateDeployRequest{ServiceName: "MyService"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if gotBody.ServiceName != "MyService" {
		t.Errorf("expected service name in body, got %q", gotBody.ServiceName)
	}
	if deploy.Status != "PENDING" {
		t.Errorf("expected PENDING, got %s", deploy.Status)
	}
	if deploy.ServiceName() != "MyService" {
		t.Errorf("expected MyService, got %s", deploy.ServiceName())
	}
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "deploy not found"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetDeploy("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "NOT_FOUND: deploy not found" {
		t.Errorf("unexpected error text: %q", got)
	}
}

func TestClient_ListDeploys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "FAILED" {
			t.Errorf("expected status filter, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"id": "a", "status": "FAILED"}},
			"total": 1,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	deploys, err := client.ListDeploys(ListDeploysOpts{Status: "FAILED"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deploys) != 1 || deploys[0].Status != "FAILED" {
		t.Errorf("unexpected result: %+v", deploys)
	}
}
