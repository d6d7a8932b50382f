package models

import "strings"

// Principal 已认证用户主体，由后端签发后整体替换，不做局部修改
type Principal struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	IsFarmer bool   `json:"isFarmer"`
	Token    string `json:"token"`
}

// Valid 判断主体是否完整可用
func (p *Principal) Valid() bool {
	return p != nil &&
		strings.TrimSpace(p.ID) != "" &&
		strings.TrimSpace(p.Token) != ""
}
