package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientLoginSendsFormEncodedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Fatalf("expected form encoding, got %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ana@example.com" || r.PostForm.Get("password") != "hunter2" {
			t.Fatalf("unexpected credentials %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	token, err := client.Login(context.Background(), "ana@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %s", token)
	}
}

func TestClientLoginInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	_, err := client.Login(context.Background(), "ana@example.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientRegisterDuplicateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	_, err := client.Register(context.Background(), RegisterInput{Email: "dup@example.com", Password: "pw"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "Email already registered" {
		t.Fatalf("expected detail preserved, got %#v", apiErr)
	}
}

func TestClientRegisterOtherFailureIsNotConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "something else"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	_, err := client.Register(context.Background(), RegisterInput{Email: "x@example.com", Password: "pw"})
	if err == nil || errors.Is(err, ErrConflict) {
		t.Fatalf("expected generic failure, got %v", err)
	}
}

func TestClientCurrentUserAttachesBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected bearer header, got %s", got)
		}
		_ = json.NewEncoder(w).Encode(UserProfile{ID: 7, Email: "ana@example.com", FullName: "Ana", Company: "Acme"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	profile, err := client.CurrentUser(context.Background(), "secret")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if profile.ID != 7 || profile.FullName != "Ana" {
		t.Fatalf("unexpected profile %#v", profile)
	}
}

func TestClientCurrentUserExpiredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	_, err := client.CurrentUser(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientPredictSalesRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/sales" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var features SalesFeatures
		if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
			t.Fatalf("decode features: %v", err)
		}
		if features.RegionNorth != 1 || features.RegionEast != 0 {
			t.Fatalf("unexpected one-hot flags %#v", features)
		}
		accuracy := 87.5
		_ = json.NewEncoder(w).Encode(SalesPrediction{Prediction: 1234.56, Accuracy: &accuracy})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	prediction, err := client.PredictSales(context.Background(), "tok", SalesFeatures{RegionNorth: 1})
	if err != nil {
		t.Fatalf("predict sales: %v", err)
	}
	if prediction.Prediction != 1234.56 || prediction.Accuracy == nil || *prediction.Accuracy != 87.5 {
		t.Fatalf("unexpected prediction %#v", prediction)
	}
}

func TestClientPredictMaintenance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/maintenance" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(MaintenanceDiagnosis{Prediction: 1, Probability: 0.82})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	diagnosis, err := client.PredictMaintenance(context.Background(), "tok", MaintenanceReading{Sensor1: 10.5})
	if err != nil {
		t.Fatalf("predict maintenance: %v", err)
	}
	if diagnosis.Prediction != 1 || diagnosis.Probability != 0.82 {
		t.Fatalf("unexpected diagnosis %#v", diagnosis)
	}
}

func TestClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != "hello" {
			t.Fatalf("unexpected prompt %q", req.Prompt)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Response: "hi there"})
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(Config{BaseURL: server.URL})
	reply, err := client.Chat(context.Background(), "tok", "hello")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
