package service

import (
	"fmt"
)

// AuthorityContext 督导话术的触发场景
type AuthorityContext string

const (
	AuthoritySkip    AuthorityContext = "skip"
	AuthorityFailure AuthorityContext = "failure"
	AuthoritySuccess AuthorityContext = "success"
	AuthorityReturn  AuthorityContext = "return"
	AuthorityDebt    AuthorityContext = "debt"
	AuthorityStreak  AuthorityContext = "streak"
)

// AuthorityTone 话术语气标签，前端据此决定展示样式
type AuthorityTone string

const (
	ToneNeutral     AuthorityTone = "neutral"
	ToneWarning     AuthorityTone = "warning"
	ToneConsequence AuthorityTone = "consequence"
	TonePraise      AuthorityTone = "praise"
)

// AuthorityData 分档依据。各场景只读取自己关心的字段
type AuthorityData struct {
	Count   int // 跳过次数 / 失败尝试序号
	Streak  int // 连续天数（成功、回归、断签场景）
	Days    int // 离开天数
	Minutes int // 学习债分钟数
}

// AuthorityMessage 面向用户的督导话术
type AuthorityMessage struct {
	Message        string        `json:"message"`
	Tone           AuthorityTone `json:"tone"`
	ActionRequired bool          `json:"actionRequired,omitempty"`
}

// GetAuthorityMessage 纯查表函数：(场景, 数据) -> 分档话术
// 无副作用，不访问任何存储。各档位必须与监督服务自身的升级阶梯保持一致
func GetAuthorityMessage(context AuthorityContext, data AuthorityData) AuthorityMessage {
	switch context {
	case AuthoritySkip:
		return skipMessage(data.Count)
	case AuthorityFailure:
		return failureMessage(data.Count)
	case AuthoritySuccess:
		return successMessage(data.Streak)
	case AuthorityReturn:
		return returnMessage(data.Days, data.Streak)
	case AuthorityDebt:
		return debtMessage(data.Minutes)
	case AuthorityStreak:
		return streakMessage(data.Streak)
	}
	return AuthorityMessage{
		Message: "Keep going. Your plan is waiting.",
		Tone:    ToneNeutral,
	}
}

func skipMessage(priorSkips int) AuthorityMessage {
	switch {
	case priorSkips == 0:
		return AuthorityMessage{
			Message: "Skip noted. One skip is a choice; a pattern is a problem. I'm watching for the pattern.",
			Tone:    ToneWarning,
		}
	case priorSkips == 1:
		return AuthorityMessage{
			Message: "Second skip on this roadmap. That costs you now — study debt has been added to your ledger.",
			Tone:    ToneConsequence,
		}
	default:
		return AuthorityMessage{
			Message:        "This is a habit now. Skipping stops here: a mandatory remediation mission has been assigned before you move on.",
			Tone:           ToneConsequence,
			ActionRequired: true,
		}
	}
}

func failureMessage(attemptNumber int) AuthorityMessage {
	switch {
	case attemptNumber <= 1:
		return AuthorityMessage{
			Message: "A failed attempt is data, not a verdict. Review what broke and go again.",
			Tone:    ToneNeutral,
		}
	case attemptNumber < 4:
		return AuthorityMessage{
			Message: fmt.Sprintf("Attempt %d failed on the same ground. The gap is real — remediation work has been queued for it.", attemptNumber),
			Tone:    ToneWarning,
		}
	default:
		return AuthorityMessage{
			Message:        "Repeated failure on this topic. Slow down: no new material until this weak spot is closed.",
			Tone:           ToneConsequence,
			ActionRequired: true,
		}
	}
}

func successMessage(streak int) AuthorityMessage {
	switch {
	case streak >= 7:
		return AuthorityMessage{
			Message: fmt.Sprintf("%d days straight. This is what discipline looks like when it compounds.", streak),
			Tone:    TonePraise,
		}
	case streak >= 3:
		return AuthorityMessage{
			Message: fmt.Sprintf("Mission complete — %d-day streak and building. Momentum is on your side.", streak),
			Tone:    TonePraise,
		}
	default:
		return AuthorityMessage{
			Message: "Mission complete. Show up again tomorrow and make it a streak.",
			Tone:    ToneNeutral,
		}
	}
}

func returnMessage(daysAway, lostStreak int) AuthorityMessage {
	if lostStreak > 0 {
		return AuthorityMessage{
			Message: fmt.Sprintf("You were gone %d days. Your %d-day streak is gone with them, and the missed time is now on your ledger.", daysAway, lostStreak),
			Tone:    ToneConsequence,
		}
	}
	if daysAway >= 7 {
		return AuthorityMessage{
			Message: "It's been a while. No lecture — let's get back on track today.",
			Tone:    ToneNeutral,
		}
	}
	return AuthorityMessage{
		Message: fmt.Sprintf("%d days without a mission. The streak you're building only survives if you show up.", daysAway),
		Tone:    ToneWarning,
	}
}

func debtMessage(outstandingMinutes int) AuthorityMessage {
	switch {
	case outstandingMinutes <= 0:
		return AuthorityMessage{
			Message: "Ledger clear. Nothing owed.",
			Tone:    ToneNeutral,
		}
	case outstandingMinutes < 60:
		return AuthorityMessage{
			Message: fmt.Sprintf("You owe %d minutes of study. Small debt — pay it before it grows.", outstandingMinutes),
			Tone:    ToneWarning,
		}
	default:
		return AuthorityMessage{
			Message:        fmt.Sprintf("%d minutes of study debt outstanding. This gets paid first, before anything new.", outstandingMinutes),
			Tone:           ToneConsequence,
			ActionRequired: true,
		}
	}
}

func streakMessage(streak int) AuthorityMessage {
	switch {
	case streak >= 30:
		return AuthorityMessage{
			Message: fmt.Sprintf("%d days. A month of showing up. Protect this.", streak),
			Tone:    TonePraise,
		}
	case streak >= 7:
		return AuthorityMessage{
			Message: fmt.Sprintf("One full week — %d days unbroken.", streak),
			Tone:    TonePraise,
		}
	default:
		return AuthorityMessage{
			Message: fmt.Sprintf("Streak at %d. Every day you show up raises the cost of quitting.", streak),
			Tone:    ToneNeutral,
		}
	}
}
