package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	UserNotFound  = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// 动作生命周期模块错误。
var (
	ActionNotFound         = Definition{Code: "ACTION_NOT_FOUND", Message: "Action instance not found"}
	ActionAlreadyCompleted = Definition{Code: "ACTION_ALREADY_COMPLETED", Message: "Action already completed"}
	ActionAlreadyDeclined  = Definition{Code: "ACTION_ALREADY_DECLINED", Message: "Action already declined"}
	NoIncompleteAction     = Definition{Code: "NO_INCOMPLETE_ACTION", Message: "No incomplete action instance found"}
)

// 挑战模块错误。
var (
	ChallengeNotFound      = Definition{Code: "CHALLENGE_NOT_FOUND", Message: "Challenge not found"}
	ChallengeAlreadyJoined = Definition{Code: "CHALLENGE_ALREADY_JOINED", Message: "Challenge already joined"}
	EnrollmentNotFound     = Definition{Code: "ENROLLMENT_NOT_FOUND", Message: "No active enrollment for this challenge"}
	EnrollmentCompleted    = Definition{Code: "ENROLLMENT_COMPLETED", Message: "Enrollment already completed"}
)

// 通用校验与存储错误。
var (
	ValidationFailed = Definition{Code: "VALIDATION_FAILED", Message: "Validation failed"}
	StoreUnavailable = Definition{Code: "STORE_UNAVAILABLE", Message: "Completion store unavailable"}
	TooManyRequests  = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:           Unauthorized,
	InvalidUserID.Code:          InvalidUserID,
	UserNotFound.Code:           UserNotFound,
	ActionNotFound.Code:         ActionNotFound,
	ActionAlreadyCompleted.Code: ActionAlreadyCompleted,
	ActionAlreadyDeclined.Code:  ActionAlreadyDeclined,
	NoIncompleteAction.Code:     NoIncompleteAction,
	ChallengeNotFound.Code:      ChallengeNotFound,
	ChallengeAlreadyJoined.Code: ChallengeAlreadyJoined,
	EnrollmentNotFound.Code:     EnrollmentNotFound,
	EnrollmentCompleted.Code:    EnrollmentCompleted,
	ValidationFailed.Code:       ValidationFailed,
	StoreUnavailable.Code:       StoreUnavailable,
	TooManyRequests.Code:        TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// token 包使用的哨兵错误。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token")
)

// SkipMessageError 消费者明确跳过消息时返回，不触发重投。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}

// IsSkipMessage 判断错误是否为跳过消息。
func IsSkipMessage(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
