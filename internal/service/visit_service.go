package service

import (
	"time"

	"github.com/pixelpulse/internal/db"
	"gorm.io/gorm"
)

// ScanWindow 按 createdAt 限定扫描范围，零值边界表示不限制。
type ScanWindow struct {
	Since time.Time
	Until time.Time
}

// ScanFilter 限定扫描的标签与是否排除自动化流量。
type ScanFilter struct {
	Label       string
	ExcludeBots bool
}

const scanBatchSize = 1000

// VisitService 负责访问记录的追加与扫描。
// visits 表只追加、不更新，并发写入的正确性完全依赖单行插入语义。
type VisitService struct {
	db *gorm.DB
}

// NewVisitService 创建 VisitService。
func NewVisitService(gdb *gorm.DB) *VisitService {
	return &VisitService{db: gdb}
}

// Append 持久化一条访问记录，CreatedAt 在落库时分配。
func (s *VisitService) Append(visit *db.Visit) error {
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now().UTC()
	}
	return s.db.Create(visit).Error
}

// ScanBatches 流式扫描匹配的访问记录并分批回调，
// 避免把整个窗口物化到内存。createdAt 随插入顺序单调不减，
// 因此按主键分批即可得到按时间升序的扫描。
func (s *VisitService) ScanBatches(window ScanWindow, filter ScanFilter, fn func(batch []db.Visit) error) error {
	var batch []db.Visit
	result := s.scoped(window, filter).FindInBatches(&batch, scanBatchSize, func(*gorm.DB, int) error {
		return fn(batch)
	})
	return result.Error
}

// Count 返回匹配的访问条数。
func (s *VisitService) Count(window ScanWindow, filter ScanFilter) (int64, error) {
	var count int64
	err := s.scoped(window, filter).Model(&db.Visit{}).Count(&count).Error
	return count, err
}

// DeleteByLabels 按标签批量删除访问记录，返回删除条数。
// 这是 visits 表唯一允许的删除路径。
func (s *VisitService) DeleteByLabels(labels []string) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	result := s.db.Where("label IN ?", labels).Delete(&db.Visit{})
	return result.RowsAffected, result.Error
}

func (s *VisitService) scoped(window ScanWindow, filter ScanFilter) *gorm.DB {
	query := s.db.Session(&gorm.Session{})
	if filter.Label != "" {
		query = query.Where("label = ?", filter.Label)
	}
	if filter.ExcludeBots {
		query = query.Where("is_bot = ?", false)
	}
	if !window.Since.IsZero() {
		query = query.Where("created_at >= ?", window.Since)
	}
	if !window.Until.IsZero() {
		query = query.Where("created_at <= ?", window.Until)
	}
	return query
}
