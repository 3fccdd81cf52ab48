package controller

import (
	"studypact_backend/internal/model"
	"studypact_backend/internal/service"
	"studypact_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DebtController struct {
	DebtService *service.DebtService
}

func NewDebtController(debtService *service.DebtService) *DebtController {
	return &DebtController{DebtService: debtService}
}

// GetDebt godoc
// @Summary 当前未清学习债汇总
// @Tags 学习债
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.OutstandingDebt}
// @Router /api/debts [get]
func (c *DebtController) GetDebt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	summary, err := c.DebtService.Outstanding(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// AddDebt godoc
// @Summary 自主添加学习债
// @Description 用户主动给自己记一笔补课时间
// @Tags 学习债
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DebtInput true "债务内容"
// @Success 201 {object} util.Response
// @Router /api/debts [post]
func (c *DebtController) AddDebt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.DebtInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 这条入口只接受自主债和目标未达债，系统债由引擎自己创建
	if input.Source != model.DebtSelfAdded && input.Source != model.DebtIncompleteGoal {
		util.BadRequest(ctx, "source must be self_added or incomplete_goal")
		return
	}
	if input.Source == model.DebtSelfAdded && input.DebtMinutes <= 0 {
		util.BadRequest(ctx, "debtMinutes must be positive")
		return
	}

	debt, err := c.DebtService.Add(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, debt)
}

// PayRequest 偿还申报
// swagger:model PayRequest
type PayRequest struct {
	MinutesStudied int `json:"minutesStudied" binding:"required,min=1"`
}

// PayDebt godoc
// @Summary 用学习时长偿还债务
// @Description 按优先级和先后顺序贪心分配，整批一次事务落库
// @Tags 学习债
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body PayRequest true "学习分钟数"
// @Success 200 {object} util.Response{data=service.PaymentResult}
// @Router /api/debts/pay [post]
func (c *DebtController) PayDebt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req PayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.DebtService.Pay(claims.UserID, req.MinutesStudied)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
