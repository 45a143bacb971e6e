package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/metrics"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/token"
	"github.com/DhavalSuthar-24/courtside/pkg/utils"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
	hash "github.com/DhavalSuthar-24/courtside/utils"
)

const (
	maxCoachCodeAttempts = 10
	defaultLevel         = "Beginner"
	invalidCredentials   = "Incorrect email or password"
)

var errCoachCodeExhausted = errors.New("could not find a free coach code")

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

// freeCoachCode draws codes until one is not held by any user.
func (ac *AuthController) freeCoachCode() (string, error) {
	for i := 0; i < maxCoachCodeAttempts; i++ {
		code, err := utils.GenerateCoachCode()
		if err != nil {
			return "", err
		}
		taken, err := ac.repo.CoachCodeExists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errCoachCodeExhausted
}

// @Summary      Register a new user
// @Description  Create a player or coach account. Coaches receive a 6-digit coach code.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} responses.SuccessResponse{data=RegisterResponse}
// @Failure      400   {object} responses.ErrorResponse "Validation error or unknown role"
// @Failure      409   {object} responses.ErrorResponse "Email already registered"
// @Failure      500   {object} responses.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := ac.repo.EmailExists(email)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if exists {
		responses.Conflict(c, "Email already registered")
		return
	}

	hashedPassword, err := hash.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = defaultLevel
	}
	years := req.YearsExperience
	if years == nil {
		zero := 0
		years = &zero
	}

	newUser := &models.User{
		Email:           email,
		PasswordHash:    hashedPassword,
		Name:            name,
		Role:            role,
		Age:             req.Age,
		YearsExperience: years,
		Level:           level,
		Goals:           strings.TrimSpace(req.Goals),
		CoachLinkStatus: models.LinkNone,
	}

	// The pre-checks narrow the window; the unique indexes close it. A
	// duplicate on insert is either the email (409) or a coach code that
	// was taken in between (draw again).
	for attempt := 0; ; attempt++ {
		if role == models.RoleCoach {
			code, err := ac.freeCoachCode()
			if err != nil {
				responses.HandleError(c, err)
				return
			}
			newUser.CoachCode = &code
		}

		err = ac.repo.CreateUser(newUser)
		if err == nil {
			break
		}
		newUser.ID = ""
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			responses.HandleError(c, fmt.Errorf("create user: %w", err))
			return
		}
		if taken, lookupErr := ac.repo.EmailExists(email); lookupErr != nil || taken || role != models.RoleCoach || attempt >= maxCoachCodeAttempts {
			responses.Conflict(c, "Email already registered")
			return
		}
	}

	logging.Ctx(c.Request.Context()).Info().
		Str("user_id", newUser.ID).
		Str("role", string(role)).
		Msg("user registered")

	responses.SendSuccess(c, http.StatusCreated, "User created successfully", RegisterResponse{
		Message:   "User created successfully",
		ID:        newUser.ID,
		CoachCode: models.Deref(newUser.CoachCode),
	})
}

// @Summary      Log in
// @Description  OAuth2 password flow: form fields username (the email) and password. JSON with the same fields is accepted too.
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        username  formData  string  true  "Email"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  responses.SuccessResponse{data=TokenResponse}
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      429  {object}  responses.ErrorResponse
// @Router       /auth/token [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !validator.Bind(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.identifier()))
	if email == "" {
		responses.ValidationFailed(c, map[string]string{"username": "is required"})
		return
	}

	u, err := ac.repo.GetUserByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			responses.HandleError(c, err)
			return
		}
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		responses.Unauthorized(c, invalidCredentials)
		return
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		responses.Unauthorized(c, invalidCredentials)
		return
	}

	accessToken, err := token.GenerateJWT(u.ID, u.Email, string(u.Role),
		ac.config.JWT.AccessTokenSecret, ac.config.JWT.Issuer, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.HandleError(c, fmt.Errorf("access token generation failed: %w", err))
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	responses.SendSuccess(c, http.StatusOK, "Login successful", TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		Role:        string(u.Role),
		Name:        u.Name,
		ID:          u.ID,
	})
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=models.User}
// @Failure      401  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	u, err := ac.repo.GetUserByID(p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "User")
			return
		}
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u)
}

// @Summary      Update my profile
// @Description  Only the fields present in the body change. Goals may be a string or a list of strings.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        profile  body  UpdateProfileRequest  true  "Profile fields"
// @Success      200  {object}  responses.SuccessResponse{data=models.User}
// @Failure      400  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /my-profile [put]
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req UpdateProfileRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.YearsExperience != nil {
		fields["years_experience"] = *req.YearsExperience
	}
	if req.Level != nil {
		fields["level"] = strings.TrimSpace(*req.Level)
	}
	if req.Goals != nil {
		fields["goals"] = string(*req.Goals)
	}

	if err := ac.repo.UpdateProfile(p.UserID, fields); err != nil {
		responses.HandleError(c, err)
		return
	}

	u, err := ac.repo.GetUserByID(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated successfully", u)
}
