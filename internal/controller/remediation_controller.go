package controller

import (
	"studypact_backend/internal/service"
	"studypact_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RemediationController struct {
	RemediationService *service.RemediationService
	StorageService     *service.StorageService
}

func NewRemediationController(remediationService *service.RemediationService, storageService *service.StorageService) *RemediationController {
	return &RemediationController{
		RemediationService: remediationService,
		StorageService:     storageService,
	}
}

// CheckRequired godoc
// @Summary 查询当前必须完成的补救任务
// @Tags 补救
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.RemediationCheck}
// @Router /api/remediation/required [get]
func (c *RemediationController) CheckRequired(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	check, err := c.RemediationService.CheckRequired(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, check)
}

// SubmitRequest 补救提交
// swagger:model SubmitRequest
type SubmitRequest struct {
	Target service.RemediationTarget `json:"target" binding:"required"`
	Proof  service.RemediationProof  `json:"proof" binding:"required"`
}

// Submit godoc
// @Summary 提交补救证明
// @Description 归属不符或证明不达标返回 passed=false 及反馈，不是错误
// @Tags 补救
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitRequest true "补救目标与证明"
// @Success 200 {object} util.Response{data=service.RemediationOutcome}
// @Router /api/remediation/submit [post]
func (c *RemediationController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.RemediationService.Submit(claims.UserID, req.Target, req.Proof)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// UploadAttachment godoc
// @Summary 上传补救证明附件
// @Description 返回附件URL，随后放进 proof.attachmentUrl 提交
// @Tags 补救
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "附件文件"
// @Success 200 {object} util.Response
// @Router /api/remediation/attachments [post]
func (c *RemediationController) UploadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.StorageService.UploadProofAttachment(ctx.Request.Context(),
		claims.UserID, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
