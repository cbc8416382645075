package dtos

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/pkg/constants"
)

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func (d *LoginDTO) Ok() (map[string]string, bool) {
	d.Email = strings.TrimSpace(d.Email)
	err := constants.Validate.Struct(d)
	if err == nil {
		return map[string]string{}, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "email":
			out[fe.Field()] = "must be an email address"
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out, false
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
}

func ToUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
	if u.SubjectID != uuid.Nil {
		id := u.SubjectID
		resp.SubjectID = &id
	}
	return resp
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
