package backend

import "context"

// AuthAPI covers account creation and credential exchange.
type AuthAPI interface {
	Register(ctx context.Context, input RegisterInput) (UserProfile, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// ProfileAPI covers the current-user endpoints.
type ProfileAPI interface {
	CurrentUser(ctx context.Context, token string) (UserProfile, error)
	UpdateCurrentUser(ctx context.Context, token string, update ProfileUpdate) (UserProfile, error)
}

// PredictionAPI covers the two model endpoints.
type PredictionAPI interface {
	PredictSales(ctx context.Context, token string, features SalesFeatures) (SalesPrediction, error)
	PredictMaintenance(ctx context.Context, token string, reading MaintenanceReading) (MaintenanceDiagnosis, error)
}

// ChatAPI covers the assistant endpoint.
type ChatAPI interface {
	Chat(ctx context.Context, token, prompt string) (string, error)
}

// API is a convenience union for components that need the whole surface.
type API interface {
	AuthAPI
	ProfileAPI
	PredictionAPI
	ChatAPI
}
