package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HeartHabit/internal/service"
	"HeartHabit/pkg/response"
)

// JoinChallenge 加入挑战
// POST /v1/challenges/:challenge_id/join
func JoinChallenge(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	challengeID, ok := pathID(ctx, c, "challenge_id")
	if !ok {
		return
	}

	resp, err := service.Challenge().Join(ctx, userID, challengeID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// RecordChallengeProgress 记录当日挑战进度
// POST /v1/challenges/:challenge_id/progress
func RecordChallengeProgress(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	challengeID, ok := pathID(ctx, c, "challenge_id")
	if !ok {
		return
	}

	resp, err := service.Challenge().RecordDailyProgress(ctx, userID, challengeID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// LeaveChallenge 离开挑战
// POST /v1/challenges/:challenge_id/leave
func LeaveChallenge(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	challengeID, ok := pathID(ctx, c, "challenge_id")
	if !ok {
		return
	}

	resp, err := service.Challenge().Leave(ctx, userID, challengeID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// ListActiveChallenges 活跃报名列表
// GET /v1/challenges/active
func ListActiveChallenges(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	items, err := service.Challenge().ListActive(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}
