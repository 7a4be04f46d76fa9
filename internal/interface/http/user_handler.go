package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-registry/internal/application"
	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/pkg/response"
	"github.com/oksasatya/user-registry/pkg/validation"
)

const msgDateFormat = "dates must be formatted as YYYY-MM-DD"

type UserHandler struct {
	Svc      *userapp.Service
	Logger   *logrus.Logger
	Renderer validation.Renderer
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, renderer validation.Renderer) *UserHandler {
	if renderer == nil {
		renderer = validation.ConcatRenderer
	}
	return &UserHandler{Svc: svc, Logger: logger, Renderer: renderer}
}

// FindBetween handles GET /users/find-people-between-dates?from=&to=.
func (h *UserHandler) FindBetween(c *gin.Context) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" || rawTo == "" {
		response.Error(c, http.StatusBadRequest, "from and to are required")
		return
	}
	from, err := civil.ParseDate(rawFrom)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgDateFormat)
		return
	}
	to, err := civil.ParseDate(rawTo)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgDateFormat)
		return
	}
	if !from.Before(to) {
		h.fail(c, userapp.ErrRangeOrder)
		return
	}

	users, err := h.Svc.FindUsersByBirthdateBetween(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	response.Data(c, users)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Data(c, u)
}

// Create handles POST /users/new. Any id in the body is ignored.
func (h *UserHandler) Create(c *gin.Context) {
	u, ok := h.bindUser(c)
	if !ok {
		return
	}
	u.ID = 0
	if err := h.Svc.Save(c.Request.Context(), u); err != nil {
		h.fail(c, err)
		return
	}
	h.Logger.WithField("user_id", u.ID).Info("user created")
	response.Empty(c)
}

// Update handles PATCH /users/:id. The path id wins over the body id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, ok := h.bindUser(c)
	if !ok {
		return
	}
	u.ID = id
	if err := h.Svc.Update(c.Request.Context(), u); err != nil {
		h.fail(c, err)
		return
	}
	h.Logger.WithField("user_id", id).Info("user updated")
	response.Empty(c)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.Logger.WithField("user_id", id).Info("user deleted")
	response.Empty(c)
}

func (h *UserHandler) bindUser(c *gin.Context) (*entity.User, bool) {
	var u entity.User
	if err := c.ShouldBindJSON(&u); err != nil {
		response.Error(c, http.StatusBadRequest, validation.DescribeBindError(err))
		return nil, false
	}
	if err := h.Svc.Validate(&u); err != nil {
		h.fail(c, err)
		return nil, false
	}
	return &u, true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// fail maps service errors to HTTP responses.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var ve *userapp.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusUnprocessableEntity, h.Renderer.Render(ve.Errors))
	case errors.Is(err, userapp.ErrIneligibleAge):
		response.Error(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, userapp.ErrRangeOrder):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
