package db

import "time"

// Visit 记录一次徽章或像素曝光，只追加、从不更新。
// IPHash 是加盐后的单向哈希，原始地址不落库；
// 指针字段为 nil 表示该维度未能解析。
type Visit struct {
	ID         uint    `gorm:"primaryKey"`
	Label      string  `gorm:"size:255;index"`
	IPHash     string  `gorm:"size:64;index"`
	Country    *string `gorm:"size:8"`
	City       *string `gorm:"size:128"`
	UserAgent  *string `gorm:"size:1024"`
	Browser    *string `gorm:"size:128"`
	OS         *string `gorm:"size:128"`
	DeviceType string  `gorm:"size:32"`
	IsBot      bool    `gorm:"index"`
	BotName    *string `gorm:"size:128"`
	Referer    *string `gorm:"size:2048"`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName 指定自定义表名。
func (Visit) TableName() string {
	return "visits"
}
