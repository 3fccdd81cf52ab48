package controller

import (
	"studypact_backend/internal/service"
	"studypact_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type IdentityController struct {
	IdentityService *service.IdentityService
}

func NewIdentityController(identityService *service.IdentityService) *IdentityController {
	return &IdentityController{IdentityService: identityService}
}

// GetIdentity godoc
// @Summary 学习者画像与行为聚合
// @Tags 画像
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearnerIdentity}
// @Router /api/identity [get]
func (c *IdentityController) GetIdentity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	identity, err := c.IdentityService.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, identity)
}
