package request

import (
	"strings"
	"testing"

	"github.com/SlpAus/game-gallery-backend/internal/audit"
	"github.com/SlpAus/game-gallery-backend/internal/game"
	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/SlpAus/game-gallery-backend/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 将全局DB指向一个内存SQLite库并迁移所需表结构
func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("无法连接测试数据库: %v", err)
	}
	// 内存库在多连接下各自独立，必须限制为单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("无法获取底层连接: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&user.User{}, &game.Game{},
		&GameRequest{}, &UserRequest{}, &audit.AdminAction{},
	); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	database.DB = db
}

func createTestUser(t *testing.T, id string, userType user.UserType) *user.User {
	u := &user.User{
		ID:       id,
		GoogleID: "google-" + id,
		Email:    id + "@example.com",
		Name:     "用户" + id,
		UserType: userType,
	}
	if err := database.DB.Create(u).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return u
}

func createTestGame(t *testing.T, id, url, createdBy string) *game.Game {
	g := &game.Game{
		ID:        id,
		Title:     "游戏" + id,
		GameURL:   url,
		CreatedBy: createdBy,
		IsActive:  true,
	}
	if err := database.DB.Create(g).Error; err != nil {
		t.Fatalf("创建测试游戏失败: %v", err)
	}
	return g
}

func deactivateTestGame(t *testing.T, gameID string) {
	err := database.DB.Model(&game.Game{}).Where("id = ?", gameID).
		Update("is_active", false).Error
	if err != nil {
		t.Fatalf("下架测试游戏失败: %v", err)
	}
}

func countAdminActionsForGameRequest(t *testing.T, requestID string) int64 {
	var count int64
	err := database.DB.Model(&audit.AdminAction{}).
		Where("game_request_id = ?", requestID).Count(&count).Error
	if err != nil {
		t.Fatalf("统计审计记录失败: %v", err)
	}
	return count
}

func TestSubmitAndApproveNewGameRequest(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)

	req, err := SubmitGameRequest("u1", GameSubmission{
		Title:   "Pong",
		GameURL: "http://pong.example",
	})
	if err != nil {
		t.Fatalf("提交游戏请求失败: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("新请求的状态 = %s, 期望 pending", req.Status)
	}
	if req.RequestType != TypeNewGame {
		t.Fatalf("新请求的类型 = %s, 期望 new_game", req.RequestType)
	}

	if err := ApproveGameRequest(req.ID, "a1", "看起来不错"); err != nil {
		t.Fatalf("批准游戏请求失败: %v", err)
	}

	// 请求进入终态并记录审核人
	var reviewed GameRequest
	if err := database.DB.Where("id = ?", req.ID).First(&reviewed).Error; err != nil {
		t.Fatalf("查询请求失败: %v", err)
	}
	if reviewed.Status != StatusApproved {
		t.Errorf("审核后的状态 = %s, 期望 approved", reviewed.Status)
	}
	if reviewed.ReviewedBy != "a1" || reviewed.ReviewedAt == nil {
		t.Errorf("审核人信息未记录: reviewedBy=%q reviewedAt=%v", reviewed.ReviewedBy, reviewed.ReviewedAt)
	}

	// 游戏被物化，计数全部为零，提交者记为创建人
	var g game.Game
	if err := database.DB.Where("game_url = ?", "http://pong.example").First(&g).Error; err != nil {
		t.Fatalf("批准后未找到游戏: %v", err)
	}
	if g.Title != "Pong" || g.CreatedBy != "u1" {
		t.Errorf("游戏内容不符: title=%q createdBy=%q", g.Title, g.CreatedBy)
	}
	if g.CountLikes != 0 || g.CountDislikes != 0 || g.Score != 0 {
		t.Errorf("新游戏的计数应为零: likes=%d dislikes=%d score=%d", g.CountLikes, g.CountDislikes, g.Score)
	}

	if n := countAdminActionsForGameRequest(t, req.ID); n != 1 {
		t.Errorf("审计记录数 = %d, 期望 1", n)
	}
}

func TestApproveTwiceSecondObservesInvalidState(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)
	createTestUser(t, "a2", user.TypeAdmin)

	req, err := SubmitGameRequest("u1", GameSubmission{Title: "Pong", GameURL: "http://pong.example"})
	if err != nil {
		t.Fatalf("提交游戏请求失败: %v", err)
	}

	if err := ApproveGameRequest(req.ID, "a1", ""); err != nil {
		t.Fatalf("第一次批准失败: %v", err)
	}

	err = ApproveGameRequest(req.ID, "a2", "")
	if !apperror.Is(err, apperror.KindInvalidState) {
		t.Fatalf("第二次批准的错误 = %v, 期望 InvalidState", err)
	}

	// 恰好一个游戏、恰好一条审计记录
	var gameCount int64
	database.DB.Model(&game.Game{}).Where("game_url = ?", "http://pong.example").Count(&gameCount)
	if gameCount != 1 {
		t.Errorf("游戏行数 = %d, 期望 1", gameCount)
	}
	if n := countAdminActionsForGameRequest(t, req.ID); n != 1 {
		t.Errorf("审计记录数 = %d, 期望 1", n)
	}
}

func TestRejectGameRequest(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)

	req, err := SubmitGameRequest("u1", GameSubmission{Title: "Pong", GameURL: "http://pong.example"})
	if err != nil {
		t.Fatalf("提交游戏请求失败: %v", err)
	}

	if err := RejectGameRequest(req.ID, "a1", "地址无法访问"); err != nil {
		t.Fatalf("驳回失败: %v", err)
	}

	var reviewed GameRequest
	database.DB.Where("id = ?", req.ID).First(&reviewed)
	if reviewed.Status != StatusRejected {
		t.Errorf("驳回后的状态 = %s, 期望 rejected", reviewed.Status)
	}
	if reviewed.AdminResponse != "地址无法访问" {
		t.Errorf("审核说明未记录: %q", reviewed.AdminResponse)
	}

	// 驳回不产生游戏
	var gameCount int64
	database.DB.Model(&game.Game{}).Count(&gameCount)
	if gameCount != 0 {
		t.Errorf("驳回后游戏行数 = %d, 期望 0", gameCount)
	}
	if n := countAdminActionsForGameRequest(t, req.ID); n != 1 {
		t.Errorf("审计记录数 = %d, 期望 1", n)
	}

	// 终态之后驳回/批准都被拒绝
	if err := RejectGameRequest(req.ID, "a1", ""); !apperror.Is(err, apperror.KindInvalidState) {
		t.Errorf("重复驳回的错误 = %v, 期望 InvalidState", err)
	}
	if err := ApproveGameRequest(req.ID, "a1", ""); !apperror.Is(err, apperror.KindInvalidState) {
		t.Errorf("驳回后批准的错误 = %v, 期望 InvalidState", err)
	}
}

func TestResolveUnknownRequest(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "a1", user.TypeAdmin)

	if err := ApproveGameRequest("missing", "a1", ""); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("批准不存在请求的错误 = %v, 期望 NotFound", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)

	cases := []struct {
		name  string
		input GameSubmission
	}{
		{"缺少标题", GameSubmission{GameURL: "http://a.example"}},
		{"缺少地址", GameSubmission{Title: "A"}},
		{"标题全是空白", GameSubmission{Title: "   ", GameURL: "http://a.example"}},
		{"标题过长", GameSubmission{Title: strings.Repeat("游", 101), GameURL: "http://a.example"}},
		{"新游戏关联已有游戏", GameSubmission{Title: "A", GameURL: "http://a.example", GameID: "g1"}},
	}
	for _, tc := range cases {
		_, err := SubmitGameRequest("u1", tc.input)
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("%s: 错误 = %v, 期望 Validation", tc.name, err)
		}
	}

	// 长度按字符数计：50个汉字的标题虽然超过100字节，仍是合法输入
	if _, err := SubmitGameRequest("u1", GameSubmission{
		Title: strings.Repeat("游", 50), GameURL: "http://cjk.example",
	}); err != nil {
		t.Errorf("50个汉字的标题被拒绝: %v", err)
	}
}

func TestDuplicateSubmissionConflicts(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestGame(t, "g1", "http://live.example", "u1")

	// 地址已有上线游戏
	_, err := SubmitGameRequest("u1", GameSubmission{Title: "A", GameURL: "http://live.example"})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Errorf("重复上线地址的错误 = %v, 期望 Conflict", err)
	}

	// 同地址的待审请求已存在
	if _, err := SubmitGameRequest("u1", GameSubmission{Title: "B", GameURL: "http://b.example"}); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	_, err = SubmitGameRequest("u1", GameSubmission{Title: "B", GameURL: "http://b.example"})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Errorf("重复待审地址的错误 = %v, 期望 Conflict", err)
	}
}

func TestPendingQuota(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)

	urls := []string{"http://a.example", "http://b.example", "http://c.example"}
	var firstID string
	for i, url := range urls {
		req, err := SubmitGameRequest("u1", GameSubmission{Title: "游戏", GameURL: url})
		if err != nil {
			t.Fatalf("第%d次提交失败: %v", i+1, err)
		}
		if i == 0 {
			firstID = req.ID
		}
	}

	// 第4次提交触达上限
	_, err := SubmitGameRequest("u1", GameSubmission{Title: "游戏", GameURL: "http://d.example"})
	if !apperror.Is(err, apperror.KindResourceExhausted) {
		t.Fatalf("超出上限的错误 = %v, 期望 ResourceExhausted", err)
	}

	// 其中一个被处理后，重新有了名额
	if err := ApproveGameRequest(firstID, "a1", ""); err != nil {
		t.Fatalf("批准失败: %v", err)
	}
	if _, err := SubmitGameRequest("u1", GameSubmission{Title: "游戏", GameURL: "http://d.example"}); err != nil {
		t.Fatalf("释放名额后的提交失败: %v", err)
	}
}

func TestGameModificationLifecycle(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "u2", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)
	createTestGame(t, "g1", "http://live.example", "u1")

	// 非提交者不能发起修改
	_, err := SubmitGameRequest("u2", GameSubmission{
		RequestType: TypeGameModification, GameID: "g1",
		Title: "新标题", GameURL: "http://live.example",
	})
	if !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("他人修改的错误 = %v, 期望 Forbidden", err)
	}

	req, err := SubmitGameRequest("u1", GameSubmission{
		RequestType: TypeGameModification, GameID: "g1",
		Title: "新标题", Description: "新介绍", GameURL: "http://live.example",
	})
	if err != nil {
		t.Fatalf("提交修改请求失败: %v", err)
	}

	if err := ApproveGameRequest(req.ID, "a1", ""); err != nil {
		t.Fatalf("批准修改失败: %v", err)
	}

	var g game.Game
	database.DB.Where("id = ?", "g1").First(&g)
	if g.Title != "新标题" || g.Description != "新介绍" {
		t.Errorf("暂存字段未套用: title=%q description=%q", g.Title, g.Description)
	}
}

func TestGameAppealReactivatesGame(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)
	createTestGame(t, "g1", "http://live.example", "u1")

	// 游戏上线中时无法申诉
	_, err := SubmitGameRequest("u1", GameSubmission{
		RequestType: TypeGameAppeal, GameID: "g1",
		Title: "游戏g1", GameURL: "http://live.example",
	})
	if !apperror.Is(err, apperror.KindInvalidState) {
		t.Fatalf("上线游戏申诉的错误 = %v, 期望 InvalidState", err)
	}

	deactivateTestGame(t, "g1")
	req, err := SubmitGameRequest("u1", GameSubmission{
		RequestType: TypeGameAppeal, GameID: "g1",
		Title: "游戏g1", GameURL: "http://live.example",
	})
	if err != nil {
		t.Fatalf("提交申诉失败: %v", err)
	}

	if err := ApproveGameRequest(req.ID, "a1", ""); err != nil {
		t.Fatalf("批准申诉失败: %v", err)
	}

	var g game.Game
	database.DB.Where("id = ?", "g1").First(&g)
	if !g.IsActive {
		t.Error("申诉批准后游戏应恢复上线")
	}
}

func TestSubmitUserRequestValidation(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)
	createTestGame(t, "g1", "http://live.example", "u1")

	cases := []struct {
		name  string
		input UserAppeal
		kind  apperror.Kind
	}{
		{"无效类型", UserAppeal{RequestType: "nonsense", AppealText: "x"}, apperror.KindValidation},
		{"缺少正文", UserAppeal{RequestType: TypeUserUnbanAppeal}, apperror.KindValidation},
		{"游戏申诉缺少游戏", UserAppeal{RequestType: TypeGameReportAppeal, AppealText: "x"}, apperror.KindValidation},
		{"解封申诉携带游戏", UserAppeal{RequestType: TypeUserUnbanAppeal, AppealText: "x", RelatedGameID: "g1"}, apperror.KindValidation},
		{"关联游戏不存在", UserAppeal{RequestType: TypeGameReportAppeal, AppealText: "x", RelatedGameID: "missing"}, apperror.KindNotFound},
	}
	for _, tc := range cases {
		_, err := SubmitUserRequest("u1", tc.input)
		if !apperror.Is(err, tc.kind) {
			t.Errorf("%s: 错误 = %v, 期望分类 %v", tc.name, err, tc.kind)
		}
	}
}

func TestDuplicateUserAppealConflict(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1", user.TypeNormal)

	if _, err := SubmitUserRequest("u1", UserAppeal{
		RequestType: TypeUserUnbanAppeal, AppealText: "请解封",
	}); err != nil {
		t.Fatalf("首次申诉失败: %v", err)
	}

	_, err := SubmitUserRequest("u1", UserAppeal{
		RequestType: TypeUserUnbanAppeal, AppealText: "再次请求",
	})
	if !apperror.Is(err, apperror.KindConflict) {
		t.Errorf("重复申诉的错误 = %v, 期望 Conflict", err)
	}
}

func TestApproveUnbanAppealReactivatesUser(t *testing.T) {
	setupTestDB(t)
	u := createTestUser(t, "u1", user.TypeNormal)
	createTestUser(t, "a1", user.TypeAdmin)

	// 先停用账户
	if err := user.DeactivateUser(u.ID, "a1", "违规"); err != nil {
		t.Fatalf("停用账户失败: %v", err)
	}

	req, err := SubmitUserRequest("u1", UserAppeal{
		RequestType: TypeUserUnbanAppeal, AppealText: "我已改正",
	})
	if err != nil {
		t.Fatalf("提交解封申诉失败: %v", err)
	}

	if err := ApproveUserRequest(req.ID, "a1", "下不为例"); err != nil {
		t.Fatalf("批准解封失败: %v", err)
	}

	restored, err := user.GetUserByID("u1")
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if !restored.IsActive {
		t.Error("解封批准后账户应恢复有效")
	}
	if restored.DeactivatedAt != nil {
		t.Error("解封后停用时间应被清除")
	}

	// 重复批准被拒绝
	if err := ApproveUserRequest(req.ID, "a1", ""); !apperror.Is(err, apperror.KindInvalidState) {
		t.Errorf("重复批准的错误 = %v, 期望 InvalidState", err)
	}

	var actionCount int64
	database.DB.Model(&audit.AdminAction{}).Where("user_request_id = ?", req.ID).Count(&actionCount)
	if actionCount != 1 {
		t.Errorf("审计记录数 = %d, 期望 1", actionCount)
	}
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, 期望 %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
