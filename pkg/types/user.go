package types

// User is a stored user record. Name identifies the record case-insensitively.
type User struct {
	Name    string `json:"name" yaml:"name" binding:"required"`
	Address string `json:"address" yaml:"address" binding:"required"`
}
