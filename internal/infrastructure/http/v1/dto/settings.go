package dto

// UpdateSettingRequest sets one setting value.
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}
