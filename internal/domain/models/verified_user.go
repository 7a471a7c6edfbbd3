package models

// VerifiedUser - игрок, подтверждённый успешной проверкой ID
type VerifiedUser struct {
	UserID   string `json:"userId"`
	ServerID string `json:"serverId"`
	Username string `json:"username"`
	Region   string `json:"region"`
}
