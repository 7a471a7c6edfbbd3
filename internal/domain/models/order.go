package models

// OrderPayload - заказ покупателя, который пересылается в таблицу.
// Порядок полей совпадает с порядком проверки обязательных полей.
type OrderPayload struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Game     string `json:"game" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	ServerID string `json:"serverId" validate:"required"`
	Product  string `json:"product" validate:"required"`
	Notes    string `json:"notes,omitempty"`
}

// ForwardedOrder - тело запроса к вебхуку: заказ плюс серверная метка времени
type ForwardedOrder struct {
	Timestamp string `json:"timestamp"`
	OrderPayload
}
