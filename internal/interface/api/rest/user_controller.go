package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"design-market-api/internal/application/ports"
	"design-market-api/internal/infrastructure/jwt"
	userDTO "design-market-api/internal/interface/api/rest/dto/user"
	"design-market-api/internal/interface/api/rest/middleware"
	"design-market-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.GET(RouteMe, middleware.AuthMiddleware(jwtService), uc.GetProfileHandler)
	r.PUT(RouteUserSubscription, middleware.AuthMiddleware(jwtService), middleware.RequireAdmin(), uc.UpdateSubscriptionHandler)

	return uc
}

// GetProfileHandler returns the caller's quota/subscription view. The
// daily counter is reported effective-as-of-now, not as stored.
func (uc *UserController) GetProfileHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.GetString(middleware.CtxUserID))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), uuid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		uc.logger.Error("FindUserByID() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, userDTO.ToProfile(*u, time.Now()))
}

// UpdateSubscriptionHandler is the admin-side subscription write: users ask
// to subscribe out-of-band and an admin activates (or revokes) it here.
func (uc *UserController) UpdateSubscriptionHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req userDTO.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errs := validator.ValidateSubscription(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := uc.userService.UpdateSubscription(c.Request.Context(), uuid, req.Status, req.SubscriptionEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscription"})
		uc.logger.Error("UpdateSubscription() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, userDTO.ToProfile(*u, time.Now()))
}
