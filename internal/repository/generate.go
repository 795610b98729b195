package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"HeartHabit/internal/model"
	"HeartHabit/storage/database"
)

// ========== User 相关查询接口 ==========

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByPublicID 根据 PublicID 查询用户（最常用，API 中 userID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetByEmail 根据邮箱查询用户
	//
	// SELECT * FROM @@table WHERE email = @email LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// ListByTier 按会员档位查询用户（用于定时任务）
	//
	// SELECT * FROM @@table
	// WHERE tier = @tier
	// {{if limit > 0}}
	// LIMIT @limit
	// {{end}}
	// {{if offset > 0}}
	// OFFSET @offset
	// {{end}}
	ListByTier(tier string, limit, offset int) ([]*gen.T, error)

	// ListExpiredTrials 查询试用期已结束的 trial 用户
	//
	// SELECT * FROM @@table
	// WHERE tier = 'trial'
	//   AND trial_ends_at IS NOT NULL
	//   AND trial_ends_at < NOW()
	ListExpiredTrials() ([]*gen.T, error)
}

// ========== DailyAction 相关查询接口 ==========

// DailyActionQuerier 每日动作实例查询接口
type DailyActionQuerier interface {
	// GetByUserActionDate 根据 (用户, 动作, 日期) 查询实例，幂等入口常用
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND action_id = @actionID AND assigned_date = @date::date
	// LIMIT 1
	GetByUserActionDate(userID, actionID int64, date string) (*gen.T, error)

	// ListCompletedDates 用户全部完成日期，按时间倒序，供连续天数计算
	//
	// SELECT completed_at FROM @@table
	// WHERE user_id = @userID AND completed = true AND completed_at IS NOT NULL
	// ORDER BY completed_at DESC
	ListCompletedDates(userID int64) ([]gen.M, error)

	// CountCompletedByCategory 按动作类别统计完成次数，徽章重算用
	//
	// SELECT a.category AS category, COUNT(*) AS cnt
	// FROM @@table da
	// INNER JOIN actions a ON a.id = da.action_id
	// WHERE da.user_id = @userID AND da.completed = true AND da.deleted_at IS NULL
	// GROUP BY a.category
	CountCompletedByCategory(userID int64) ([]gen.M, error)

	// CountDistinctCompletedActions 完成过的去重动作数
	//
	// SELECT COUNT(DISTINCT action_id) AS cnt
	// FROM @@table
	// WHERE user_id = @userID AND completed = true
	CountDistinctCompletedActions(userID int64) (int64, error)

	// ListFavoritesByUser 收藏列表，游标分页
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND favorited = true
	//   {{if cursorID > 0}}
	//   AND id < @cursorID
	//   {{end}}
	// ORDER BY id DESC
	// LIMIT @limit
	ListFavoritesByUser(userID int64, cursorID int64, limit int) ([]*gen.T, error)
}

// ========== ChallengeEnrollment 相关查询接口 ==========

// ChallengeEnrollmentQuerier 挑战报名查询接口
type ChallengeEnrollmentQuerier interface {
	// GetActive 用户在某个挑战的活跃报名
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND challenge_id = @challengeID AND completed = false
	// LIMIT 1
	GetActive(userID, challengeID int64) (*gen.T, error)

	// ListActiveByUser 用户的全部活跃报名
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND completed = false
	// ORDER BY joined_at DESC
	ListActiveByUser(userID int64) ([]*gen.T, error)

	// ListStaleActive 活跃但多日无进度的报名（用于提醒类任务）
	//
	// SELECT * FROM @@table
	// WHERE completed = false
	//   AND last_progress_date IS NOT NULL
	//   AND last_progress_date < CURRENT_DATE - @days
	ListStaleActive(days int) ([]*gen.T, error)
}

// ========== BadgeAward 相关查询接口 ==========

// BadgeAwardQuerier 徽章授予记录查询接口
type BadgeAwardQuerier interface {
	// ListByUser 用户已持有的徽章，按授予时间倒序
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID
	// ORDER BY awarded_at DESC
	ListByUser(userID int64) ([]*gen.T, error)

	// CountByCode 各徽章的持有人数（用于运营报表）
	//
	// SELECT badge_code, COUNT(*) as count
	// FROM @@table
	// GROUP BY badge_code
	CountByCode() ([]gen.M, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 运行数据库迁移（确保表存在）
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}

	db := database.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "HeartHabit/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true, // 字段可以为 null
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.Action{},
		&model.DailyAction{},
		&model.HiddenAction{},
		&model.Challenge{},
		&model.ChallengeEnrollment{},
		&model.BadgeAward{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(UserQuerier) {}, &model.User{})
	g.ApplyInterface(func(DailyActionQuerier) {}, &model.DailyAction{})
	g.ApplyInterface(func(ChallengeEnrollmentQuerier) {}, &model.ChallengeEnrollment{})
	g.ApplyInterface(func(BadgeAwardQuerier) {}, &model.BadgeAward{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
