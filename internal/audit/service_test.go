package audit

import (
	"testing"

	"github.com/SlpAus/game-gallery-backend/internal/platform/database"
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

	if err := db.AutoMigrate(&AdminAction{}); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	database.DB = db
}

func TestRecordReview(t *testing.T) {
	setupTestDB(t)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := RecordGameRequestReview(tx, "admin-1", "gr-1"); err != nil {
			return err
		}
		return RecordUserRequestReview(tx, "admin-1", "ur-1")
	})
	if err != nil {
		t.Fatalf("写入审计记录失败: %v", err)
	}

	var actions []AdminAction
	database.DB.Find(&actions)
	if len(actions) != 2 {
		t.Fatalf("审计记录数 = %d, 期望 2", len(actions))
	}
	for _, a := range actions {
		if a.AdminID != "admin-1" {
			t.Errorf("管理员ID = %q, 期望 admin-1", a.AdminID)
		}
		// 每条记录恰好关联一种请求
		if (a.GameRequestID == "") == (a.UserRequestID == "") {
			t.Errorf("记录的关联字段不合法: game=%q user=%q", a.GameRequestID, a.UserRequestID)
		}
	}
}

func TestRecordRequiresRequest(t *testing.T) {
	setupTestDB(t)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return record(tx, "admin-1", "", "")
	})
	if !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("缺少关联请求的错误 = %v, 期望 Validation", err)
	}
}

func TestListActions(t *testing.T) {
	setupTestDB(t)

	database.DB.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 5; i++ {
			if err := RecordGameRequestReview(tx, "admin-1", "gr-"+string(rune('a'+i))); err != nil {
				return err
			}
		}
		return nil
	})

	actions, total, err := ListActions(1, 3)
	if err != nil {
		t.Fatalf("查询审计记录失败: %v", err)
	}
	if total != 5 || len(actions) != 3 {
		t.Errorf("第一页结果 = (%d行, 共%d), 期望 (3, 5)", len(actions), total)
	}

	actions, total, err = ListActions(2, 3)
	if err != nil {
		t.Fatalf("查询第二页失败: %v", err)
	}
	if total != 5 || len(actions) != 2 {
		t.Errorf("第二页结果 = (%d行, 共%d), 期望 (2, 5)", len(actions), total)
	}
}
