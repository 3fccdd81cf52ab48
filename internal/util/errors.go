package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStepNotFound     = errors.New("roadmap step not found")
	ErrRoadmapNotFound  = errors.New("roadmap not found")
	ErrWeakSpotNotFound = errors.New("weak spot not found")
	ErrSkipNotFound     = errors.New("skip record not found")
	ErrDebtNotFound     = errors.New("study debt not found")
	ErrActionNotFound   = errors.New("enforcement action not found")
	ErrInvalidProofType = errors.New("invalid proof type")
)
