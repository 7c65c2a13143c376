package task

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxTitleLength 标题最大长度（去除首尾空白后，按字符计）
const MaxTitleLength = 200

// titleRules 标题校验规则，max 按 rune 计数
const titleRules = "required,max=200"

// 字段名，与请求体 JSON 键一致
const (
	FieldTitle     = "title"
	FieldCompleted = "completed"
)

// Violation 单条校验失败信息
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateInput 通过校验的创建请求
type CreateInput struct {
	Title     string
	Completed bool
}

// UpdateInput 通过校验的更新请求，nil 表示请求中未出现该字段
type UpdateInput struct {
	Title     *string
	Completed *bool
}

// Patch 转换为仓储补丁
func (in UpdateInput) Patch() Patch {
	return Patch{Title: in.Title, Completed: in.Completed}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCreate 校验创建请求体，title 与 completed 均为必填
func ValidateCreate(body map[string]json.RawMessage) (CreateInput, []Violation) {
	var (
		in         CreateInput
		violations []Violation
	)

	title, ok, v := readTitle(body, true)
	if v != nil {
		violations = append(violations, *v)
	} else if ok {
		in.Title = title
		violations = append(violations, checkTitle(title)...)
	}

	completed, _, v := readCompleted(body, true)
	if v != nil {
		violations = append(violations, *v)
	} else {
		in.Completed = completed
	}

	if len(violations) > 0 {
		return CreateInput{}, violations
	}
	return in, nil
}

// ValidateUpdate 校验更新请求体，字段可选，出现时规则与创建一致
func ValidateUpdate(body map[string]json.RawMessage) (UpdateInput, []Violation) {
	var (
		in         UpdateInput
		violations []Violation
	)

	title, ok, v := readTitle(body, false)
	if v != nil {
		violations = append(violations, *v)
	} else if ok {
		in.Title = &title
		violations = append(violations, checkTitle(title)...)
	}

	completed, ok, v := readCompleted(body, false)
	if v != nil {
		violations = append(violations, *v)
	} else if ok {
		in.Completed = &completed
	}

	if len(violations) > 0 {
		return UpdateInput{}, violations
	}
	return in, nil
}

// readTitle 读取 title 字段并去除首尾空白
func readTitle(body map[string]json.RawMessage, required bool) (string, bool, *Violation) {
	raw, present := body[FieldTitle]
	if !present {
		if required {
			return "", false, &Violation{Field: FieldTitle, Message: "Title is required"}
		}
		return "", false, nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false, &Violation{Field: FieldTitle, Message: "Title must be a string"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, &Violation{Field: FieldTitle, Message: "Title must be a string"}
	}
	return strings.TrimSpace(s), true, nil
}

// readCompleted 读取 completed 字段，只接受 JSON 布尔值
func readCompleted(body map[string]json.RawMessage, required bool) (bool, bool, *Violation) {
	raw, present := body[FieldCompleted]
	if !present {
		if required {
			return false, false, &Violation{Field: FieldCompleted, Message: "Completed is required"}
		}
		return false, false, nil
	}

	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	default:
		return false, false, &Violation{Field: FieldCompleted, Message: "Completed must be a boolean"}
	}
}

// checkTitle 校验去除空白后的标题
func checkTitle(title string) []Violation {
	err := validate.Var(title, titleRules)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Field: FieldTitle, Message: "Title is invalid"}}
	}

	violations := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			violations = append(violations, Violation{Field: FieldTitle, Message: "Title cannot be empty"})
		case "max":
			violations = append(violations, Violation{Field: FieldTitle, Message: "Title must be at most 200 characters"})
		default:
			violations = append(violations, Violation{Field: FieldTitle, Message: "Title is invalid"})
		}
	}
	return violations
}
