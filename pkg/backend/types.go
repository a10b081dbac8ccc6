package backend

// UserProfile is the account record served by the backend. It is fetched on
// demand and never cached beyond the current page's state.
type UserProfile struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
}

// RegisterInput carries the registration payload for POST /users/.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
}

// ProfileUpdate carries the mutable profile fields for PUT /users/me/.
type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Company  string `json:"company"`
}

// SalesFeatures is the one-hot expanded feature record expected by the sales
// model. Field names match the model's training columns exactly.
type SalesFeatures struct {
	Temperature    float64 `json:"Temperature"`
	Customers      int     `json:"Customers"`
	MarketingSpend float64 `json:"Marketing_Spend"`
	Month          int     `json:"Month"`
	DayOfWeek      int     `json:"DayOfWeek"`
	RegionEast     int     `json:"Region_East"`
	RegionNorth    int     `json:"Region_North"`
	RegionSouth    int     `json:"Region_South"`
	PromotionYes   int     `json:"Promotion_Yes"`
	HolidayYes     int     `json:"Holiday_Yes"`
}

// SalesPrediction is the sales model response. Accuracy is optional; older
// backend builds omit it.
type SalesPrediction struct {
	Prediction float64  `json:"prediction"`
	Accuracy   *float64 `json:"accuracy_percentage,omitempty"`
}

// MaintenanceReading holds the six telemetry fields the maintenance model consumes.
type MaintenanceReading struct {
	Sensor1     float64 `json:"Sensor1"`
	Sensor2     float64 `json:"Sensor2"`
	Sensor3     float64 `json:"Sensor3"`
	Temperature float64 `json:"Temperature"`
	Pressure    float64 `json:"Pressure"`
	Vibration   float64 `json:"Vibration"`
}

// MaintenanceDiagnosis is the maintenance model response: a 0/1 failure class
// and the failure-class probability.
type MaintenanceDiagnosis struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}
