package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ── 先修要求自定义类型 ──

// StringOrList 先修要求字段：内置目录中既有 "CIS 120" 这种单字符串形式，
// 也有 ["CIS 120", "CIS 160"] 这种列表形式，两种形式都必须接受并可渲染。
type StringOrList []string

// UnmarshalJSON 同时接受 JSON 字符串与 JSON 字符串数组
func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringOrList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("StringOrList: 既不是字符串也不是字符串数组: %w", err)
	}
	*s = list
	return nil
}

// Display 渲染为展示文本（列表形式以逗号连接）
func (s StringOrList) Display() string {
	return strings.Join(s, ", ")
}

// Course 课程 — 全站唯一标识为 CourseID()（dept-number）
type Course struct {
	Dept        string       `json:"dept"`
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Prereqs     StringOrList `json:"prereqs,omitempty"`
	CrossListed []string     `json:"cross-listed,omitempty"`
}

// CourseID 课程唯一标识键：dept + "-" + number
// 纯函数、确定性；dept 与 number 相同的两门课程视为同一课程
func (c *Course) CourseID() string {
	return c.Dept + "-" + strconv.Itoa(c.Number)
}

// Code 课程展示编号：dept + " " + number
func (c *Course) Code() string {
	return c.Dept + " " + strconv.Itoa(c.Number)
}
