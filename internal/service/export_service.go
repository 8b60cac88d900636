package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bissaliev/ReferalProject/internal/repository"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportInvited 导出当前用户邀请的用户列表为 Excel
	ExportInvited(ctx context.Context, inviterID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportInvited 导出邀请列表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "邀请列表"
//   - 第 1 行标题（含邀请码），第 2 行表头
//   - 列：序号 / 手机号 / 激活邀请码 / 激活时间
//
// 没有邀请记录时仍输出仅含表头的文件

func (s *exportService) ExportInvited(ctx context.Context, inviterID string) (*bytes.Buffer, string, error) {
	inviter, err := s.repo.User.GetByID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		s.logger.Error("查询邀请人失败", zap.String("inviter_id", inviterID), zap.Error(err))
		return nil, "", err
	}

	referrals, err := s.repo.Referral.ListByInviter(ctx, inviterID)
	if err != nil {
		s.logger.Error("查询邀请列表失败", zap.String("inviter_id", inviterID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "邀请列表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 24)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("邀请码 %s 的邀请列表", inviter.InviteCode))
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"序号", "手机号", "激活邀请码", "激活时间"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, c, h)
	}
	f.SetCellStyle(sheetName, "A2", "D2", headerStyle)

	// 数据行
	row := 3
	for i, r := range referrals {
		phone := "-"
		if r.Invitee != nil {
			phone = r.Invitee.PhoneNumber
		}
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), phone)
		f.SetCellValue(sheetName, cell("C", row), r.ActivatedInviteCode)
		f.SetCellValue(sheetName, cell("D", row), r.CreatedAt.Format(time.DateTime))
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("invited_%s.xlsx", inviter.InviteCode)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
