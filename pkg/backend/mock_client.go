package backend

import (
	"context"
	"sync"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	Token       string
	Profile     UserProfile
	Sales       SalesPrediction
	Maintenance MaintenanceDiagnosis
	ChatReply   string
}

// MockClient implements API using in-memory fixtures. Every authenticated
// call records whether a token was attached so tests can assert the bearer
// invariant without a network.
type MockClient struct {
	mu    sync.RWMutex
	data  MockData
	Err   error
	Calls []string
}

// NewMockClient builds a mock backend from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var _ API = (*MockClient)(nil)

// Register returns the configured profile.
func (c *MockClient) Register(_ context.Context, input RegisterInput) (UserProfile, error) {
	c.record("register")
	if c.Err != nil {
		return UserProfile{}, c.Err
	}
	profile := c.data.Profile
	if profile.Email == "" {
		profile.Email = input.Email
	}
	return profile, nil
}

// Login returns the configured token.
func (c *MockClient) Login(context.Context, string, string) (string, error) {
	c.record("login")
	if c.Err != nil {
		return "", c.Err
	}
	return c.data.Token, nil
}

// CurrentUser returns the configured profile.
func (c *MockClient) CurrentUser(_ context.Context, token string) (UserProfile, error) {
	c.record("current_user")
	if c.Err != nil {
		return UserProfile{}, c.Err
	}
	if token == "" {
		return UserProfile{}, ErrUnauthorized
	}
	return c.data.Profile, nil
}

// UpdateCurrentUser echoes the update merged over the configured profile.
func (c *MockClient) UpdateCurrentUser(_ context.Context, token string, update ProfileUpdate) (UserProfile, error) {
	c.record("update_user")
	if c.Err != nil {
		return UserProfile{}, c.Err
	}
	if token == "" {
		return UserProfile{}, ErrUnauthorized
	}
	profile := c.data.Profile
	profile.FullName = update.FullName
	profile.Company = update.Company
	return profile, nil
}

// PredictSales returns the configured prediction.
func (c *MockClient) PredictSales(_ context.Context, token string, _ SalesFeatures) (SalesPrediction, error) {
	c.record("predict_sales")
	if c.Err != nil {
		return SalesPrediction{}, c.Err
	}
	if token == "" {
		return SalesPrediction{}, ErrUnauthorized
	}
	return c.data.Sales, nil
}

// PredictMaintenance returns the configured diagnosis.
func (c *MockClient) PredictMaintenance(_ context.Context, token string, _ MaintenanceReading) (MaintenanceDiagnosis, error) {
	c.record("predict_maintenance")
	if c.Err != nil {
		return MaintenanceDiagnosis{}, c.Err
	}
	if token == "" {
		return MaintenanceDiagnosis{}, ErrUnauthorized
	}
	return c.data.Maintenance, nil
}

// Chat returns the configured reply.
func (c *MockClient) Chat(_ context.Context, token, _ string) (string, error) {
	c.record("chat")
	if c.Err != nil {
		return "", c.Err
	}
	if token == "" {
		return "", ErrUnauthorized
	}
	return c.data.ChatReply, nil
}

// CallCount reports how many times a named operation ran.
func (c *MockClient) CallCount(op string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, call := range c.Calls {
		if call == op {
			count++
		}
	}
	return count
}

func (c *MockClient) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, op)
}
