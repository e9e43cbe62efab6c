package model

// Order is a record of the orders service (T3) as served through the gateway.
type Order struct {
	ID          int        `json:"order_id"`
	UserID      int        `json:"user_id"`
	OrderDate   string     `json:"order_date,omitempty"`
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	Status      string     `json:"status"`
}

type LineItem struct {
	ID         int     `json:"item_id,omitempty"`
	CarModelID int     `json:"car_model_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Subtotal   float64 `json:"subtotal,omitempty"`
}

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type CarModel struct {
	ID        int     `json:"id"`
	ModelName string  `json:"model_name"`
	BasePrice float64 `json:"base_price,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
}
