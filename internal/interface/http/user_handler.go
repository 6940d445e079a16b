package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/domain/rules"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/imagestore"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	"github.com/oksasatya/go-user-accounts/pkg/response"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

// multipart framing allowance on top of the file size limit
const multipartOverhead = 1 << 20

type UserHandler struct {
	Svc            *userapp.Service
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, maxUploadBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type createUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type editUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type deleteUserRequest struct {
	Email string `json:"email"`
}

type uploadImageForm struct {
	Email string                `form:"email"`
	Image *multipart.FileHeader `form:"image" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), userapp.CreateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID}, "User created", nil)
}

func (h *UserHandler) Edit(c *gin.Context) {
	var req editUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.EditUser(c.Request.Context(), userapp.EditUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User updated successfully", nil)
}

// Delete takes the email from the JSON body, falling back to ?email=.
func (h *UserHandler) Delete(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Email == "" {
		req.Email = c.Query("email")
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User deleted", nil)
}

func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

func (h *UserHandler) UploadImage(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)
	}

	var form uploadImageForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "No file uploaded or invalid file type", validation.ToDetails(err))
		return
	}

	f, err := form.Image.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	path, err := h.Svc.UploadImage(c.Request.Context(), form.Email, imagestore.Upload{
		Body:        f,
		ContentType: form.Image.Header.Get("Content-Type"),
		Filename:    form.Image.Filename,
		Size:        form.Image.Size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"path": path}, "Image uploaded successfully", nil)
}

// Health reports whether the record store answers.
func (h *UserHandler) Health(c *gin.Context) {
	if err := h.Svc.Ping(c.Request.Context()); err != nil {
		helpers.LogError(h.Logger, "health check failed", err, nil)
		response.Error[any](c, http.StatusServiceUnavailable, "unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "ok", nil)
}

// fail maps service errors onto status codes and messages.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var v *rules.Violation
	switch {
	case errors.As(err, &v):
		response.Error[any](c, http.StatusBadRequest, v.Message, validation.ToDetails(err))
	case errors.Is(err, userapp.ErrDuplicateEmail):
		response.Error[any](c, http.StatusBadRequest, "Email already exists", map[string]string{"email": "already exists"})
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, imagestore.ErrUnsupportedMediaType):
		response.Error[any](c, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG, and GIF formats are allowed.", map[string]string{"image": err.Error()})
	case errors.Is(err, imagestore.ErrFileTooLarge):
		response.Error[any](c, http.StatusBadRequest, "File too large", map[string]string{"image": err.Error()})
	default:
		helpers.LogError(h.Logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
