package auth

import (
	"strings"

	"github.com/goccy/go-json"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email" example:"carla@example.com"`
	Password        string `json:"password" binding:"required,min=6,max=72" example:"baseline-rally"`
	Role            string `json:"role" example:"coach"`
	Name            string `json:"name" binding:"max=100" example:"Carla"`
	Age             *int   `json:"age" binding:"omitempty,gte=3,lte=120"`
	YearsExperience *int   `json:"years_experience" binding:"omitempty,gte=0,lte=100"`
	Level           string `json:"level" example:"Intermediate"`
	Goals           string `json:"goals"`
}

type RegisterResponse struct {
	Message   string `json:"message"`
	ID        string `json:"id"`
	CoachCode string `json:"coach_code,omitempty"`
}

// LoginRequest accepts the OAuth2 password form (username=email) or JSON.
type LoginRequest struct {
	Username string `form:"username" json:"username" example:"carla@example.com"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (r LoginRequest) identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	ID          string `json:"id"`
}

type UpdateProfileRequest struct {
	Name            *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Age             *int      `json:"age" binding:"omitempty,gte=3,lte=120"`
	YearsExperience *int      `json:"years_experience" binding:"omitempty,gte=0,lte=100"`
	Level           *string   `json:"level" binding:"omitempty,max=50"`
	Goals           *GoalList `json:"goals"`
}

// GoalList reads goals sent either as one string or as a list of strings.
type GoalList string

func (g *GoalList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		kept := list[:0]
		for _, item := range list {
			if s := strings.TrimSpace(item); s != "" {
				kept = append(kept, s)
			}
		}
		*g = GoalList(strings.Join(kept, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = GoalList(strings.TrimSpace(s))
	return nil
}
