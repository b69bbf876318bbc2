package auth

import (
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Handlers обработчики регистрации и входа
type Handlers struct {
	storage         repository.Storage
	jwtService      *JWTService
	passwordService *PasswordService
	log             *zap.Logger
}

// NewHandlers создает обработчики аутентификации
func NewHandlers(storage repository.Storage, jwtService *JWTService, passwordService *PasswordService, log *zap.Logger) *Handlers {
	return &Handlers{
		storage:         storage,
		jwtService:      jwtService,
		passwordService: passwordService,
		log:             log,
	}
}

// RegisterRequest структура запроса регистрации
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse структура ответа аутентификации
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse структура ошибки
type MessageResponse struct {
	Message string `json:"message"`
}

// Register обработчик регистрации
//
//	@Summary		Register a new user
//	@Description	Create a new user account and return an access token
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	TokenResponse
//	@Failure		400		{object}	MessageResponse
//	@Failure		500		{object}	MessageResponse
//	@Router			/api/users/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid registration request", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Name is required")
		return
	}
	if !isValidEmail(req.Email) {
		writeMessage(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	// Проверяем, не существует ли уже пользователь с таким email
	_, err := h.storage.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		writeMessage(w, http.StatusBadRequest, "User with this email already exists")
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		h.log.Error("failed to look up user", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	hashedPassword, err := h.passwordService.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if err := h.storage.CreateUser(r.Context(), user); err != nil {
		// гонка двух регистраций с одним email
		if errors.Is(err, repository.ErrUserExists) {
			writeMessage(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		h.log.Error("failed to create user", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

// Login обработчик входа
//
//	@Summary		Login user
//	@Description	Authenticate user and receive an access token
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	MessageResponse	"Invalid credentials"
//	@Failure		500		{object}	MessageResponse
//	@Router			/api/users/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.storage.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		h.log.Error("failed to look up user", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.passwordService.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.log.Debug("invalid password for user", zap.Int64("user_id", user.ID))
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.log.Info("user logged in", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func isValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
