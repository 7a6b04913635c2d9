package scheduler

import (
	"encoding/json"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

// 模板底层表结构没有多班次字段，多班次配置以 JSON 字符串的形式
// 寄存在模板的 notes 字段里，格式需要和存量数据保持兼容
type templatePayload struct {
	MultipleShifts bool                        `json:"multipleShifts"`
	Shifts         []domain.TemplateShiftGroup `json:"shifts"`
}

func EncodeTemplatePayload(groups []domain.TemplateShiftGroup) (string, error) {
	payload := templatePayload{
		MultipleShifts: true,
		Shifts:         groups,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// DecodeTemplatePayload 防御性地解析 notes 载荷：
// 载荷为空、不是合法 JSON、或者没有 multipleShifts 标记时都返回 nil，
// 调用方必须把 nil 当作旧版单班次模板处理，而不是当作错误
func DecodeTemplatePayload(payload string) []domain.TemplateShiftGroup {
	if payload == "" {
		return nil
	}

	var decoded templatePayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil
	}

	if !decoded.MultipleShifts || decoded.Shifts == nil {
		return nil
	}

	return decoded.Shifts
}
