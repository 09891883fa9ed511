package request

type BanUserRequest struct {
	IsBanned *bool `json:"is_banned" validate:"required"`
}
