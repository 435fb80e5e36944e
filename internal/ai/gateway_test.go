package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockledger/internal/model"
)

func candidateResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + quote(text) + `}]}}]}`
}

func quote(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL)
}

func TestDisabledClient(t *testing.T) {
	c := NewClient("", "")
	if got := c.GenerateDescription(context.Background(), "Bearing", "Spares", "Mechanical"); got != FallbackDescription {
		t.Fatalf("expected fallback, got %q", got)
	}
	if insights := c.GetInsights(context.Background(), nil, model.DepartmentAll); insights != nil {
		t.Fatalf("expected nil insights, got %+v", insights)
	}
}

func TestGenerateDescription(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key missing from request")
		}
		w.Write([]byte(candidateResponse("A durable deep-groove ball bearing.\n")))
	})

	got := c.GenerateDescription(context.Background(), "Bearing 6204", "Spares", "Mechanical")
	if got != "A durable deep-groove ball bearing." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestGenerateDescription_ProviderFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if got := c.GenerateDescription(context.Background(), "Bearing", "Spares", "Mechanical"); got != FallbackDescription {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetInsights_ParsesFencedJSON(t *testing.T) {
	payload := "```json\n{\"summary\":\"Stock is healthy\",\"priorities\":[\"Grease\",\"Bearings\",\"Cable\",\"Extra\"],\"risk_assessment\":\"Low\"}\n```"
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(payload)))
	})

	insights := c.GetInsights(context.Background(), []model.Product{{Name: "Grease"}}, "Mechanical")
	if insights == nil {
		t.Fatalf("expected insights")
	}
	if insights.Summary != "Stock is healthy" || insights.RiskAssessment != "Low" {
		t.Fatalf("unexpected insights: %+v", insights)
	}
	if len(insights.Priorities) != 3 {
		t.Fatalf("priorities not capped at 3: %v", insights.Priorities)
	}
}

func TestGetInsights_MalformedResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse("not json at all")))
	})

	if insights := c.GetInsights(context.Background(), nil, model.DepartmentAll); insights != nil {
		t.Fatalf("expected nil on malformed response, got %+v", insights)
	}
}
