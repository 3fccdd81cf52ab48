package controller

import (
	"strconv"

	"studypact_backend/internal/model"
	"studypact_backend/internal/service"
	"studypact_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EnforcementController 监督引擎对外入口：跳过裁决与落实、尝试记录、
// 完成校验、静默检测、监督动作待办
type EnforcementController struct {
	SkipService       *service.SkipService
	AttemptService    *service.AttemptService
	CompletionService *service.CompletionService
	InactivityService *service.InactivityService
	ActionRepo        ActionStore
}

// ActionStore 监督动作的读取与标记
type ActionStore interface {
	FindByID(id uint) (*model.EnforcementAction, error)
	FindPending(userID uint) ([]model.EnforcementAction, error)
	Acknowledge(action *model.EnforcementAction) error
	Resolve(action *model.EnforcementAction) error
}

func NewEnforcementController(
	skipService *service.SkipService,
	attemptService *service.AttemptService,
	completionService *service.CompletionService,
	inactivityService *service.InactivityService,
	actionRepo ActionStore,
) *EnforcementController {
	return &EnforcementController{
		SkipService:       skipService,
		AttemptService:    attemptService,
		CompletionService: completionService,
		InactivityService: inactivityService,
		ActionRepo:        actionRepo,
	}
}

// SkipRequest 跳过请求
// swagger:model SkipRequest
type SkipRequest struct {
	RoadmapID   uint             `json:"roadmapId" binding:"required"`
	StepID      uint             `json:"stepId" binding:"required"`
	Reason      model.SkipReason `json:"reason" binding:"required,oneof=already_know too_hard not_interested other"`
	Explanation string           `json:"explanation"`
}

// EvaluateSkip godoc
// @Summary 跳过裁决（不落库）
// @Description 返回跳过的后果预告，供前端展示确认弹窗
// @Tags 监督
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SkipRequest true "跳过请求"
// @Success 200 {object} util.Response{data=service.SkipDecision}
// @Router /api/enforcement/skip/evaluate [post]
func (c *EnforcementController) EvaluateSkip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SkipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	decision, err := c.SkipService.Evaluate(ctx.Request.Context(),
		claims.UserID, req.RoadmapID, req.StepID, req.Reason, req.Explanation)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, decision)
}

// RecordSkip godoc
// @Summary 落实一次已确认的跳过
// @Tags 监督
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SkipRequest true "跳过请求"
// @Success 200 {object} util.Response
// @Router /api/enforcement/skip [post]
func (c *EnforcementController) RecordSkip(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SkipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, decision, err := c.SkipService.Record(ctx.Request.Context(),
		claims.UserID, req.RoadmapID, req.StepID, req.Reason, req.Explanation)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"record": record, "decision": decision})
}

// AttemptRequest 尝试申报
// swagger:model AttemptRequest
type AttemptRequest struct {
	StepID uint `json:"stepId" binding:"required"`
	service.AttemptInput
}

// RecordAttempt godoc
// @Summary 记录一次任务尝试
// @Tags 监督
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AttemptRequest true "尝试内容"
// @Success 200 {object} util.Response{data=service.AttemptOutcome}
// @Router /api/enforcement/attempts [post]
func (c *EnforcementController) RecordAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.AttemptService.Record(claims.UserID, req.StepID, req.AttemptInput)
	if err == util.ErrStepNotFound {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// CompletionRequest 完成校验请求
// swagger:model CompletionRequest
type CompletionRequest struct {
	StepID       uint                     `json:"stepId" binding:"required"`
	MinutesSpent int                      `json:"minutesSpent"`
	Proof        *service.CompletionProof `json:"proof"`
}

// ValidateCompletion godoc
// @Summary 校验一次步骤完成申报
// @Tags 监督
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CompletionRequest true "完成申报"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/enforcement/completion/validate [post]
func (c *EnforcementController) ValidateCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := c.CompletionService.Validate(claims.UserID, req.StepID, req.MinutesSpent, req.Proof)
	util.Success(ctx, result)
}

// CheckInactivity godoc
// @Summary 静默检测（登录时调用）
// @Description 计算离开天数并应用断签后果，无话术时 data 为空
// @Tags 监督
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/enforcement/inactivity/check [post]
func (c *EnforcementController) CheckInactivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	msg, err := c.InactivityService.Check(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"authority": msg})
}

// PendingActions godoc
// @Summary 未确认的监督动作列表
// @Tags 监督
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/enforcement/actions [get]
func (c *EnforcementController) PendingActions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	actions, err := c.ActionRepo.FindPending(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}

// AcknowledgeAction godoc
// @Summary 确认一条监督动作
// @Tags 监督
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "动作ID"
// @Success 200 {object} util.Response
// @Router /api/enforcement/actions/{id}/acknowledge [post]
func (c *EnforcementController) AcknowledgeAction(ctx *gin.Context) {
	c.flagAction(ctx, c.ActionRepo.Acknowledge)
}

// ResolveAction godoc
// @Summary 标记一条监督动作已解决
// @Tags 监督
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "动作ID"
// @Success 200 {object} util.Response
// @Router /api/enforcement/actions/{id}/resolve [post]
func (c *EnforcementController) ResolveAction(ctx *gin.Context) {
	c.flagAction(ctx, c.ActionRepo.Resolve)
}

func (c *EnforcementController) flagAction(ctx *gin.Context, flip func(*model.EnforcementAction) error) {
	claims := util.GetUserFromContext(ctx)
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid action id")
		return
	}

	action, err := c.ActionRepo.FindByID(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if action.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	if err := flip(action); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, action)
}
