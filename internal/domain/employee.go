package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailAlreadyExists = errors.New("employee email already exists")
)

type Employee struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// MatchesKeyword 判断关键字是否（忽略大小写）出现在任意一个可搜索的字段中
func (e *Employee) MatchesKeyword(keyword string) bool {
	keyword = strings.ToLower(keyword)

	for _, field := range []string{e.FirstName, e.LastName, e.Email, e.Department, e.Position} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}

	return false
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
