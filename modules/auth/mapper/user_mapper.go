package mapper

import (
	"calendar-api/modules/auth/dto"
	"calendar-api/modules/auth/entity"
)

func ToUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
