package api

import (
	"context"
	"net/http"

	"github.com/umedzhan/agromarket/internal/models"
)

// loginRequest 登录请求体
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest 注册请求体
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest 资料更新请求体，password 为空表示不修改密码
type updateProfileRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Login 登录，成功时返回带 token 的用户主体
func (c *Client) Login(ctx context.Context, email, password string) (*models.Principal, error) {
	var principal models.Principal
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", nil, loginRequest{Email: email, Password: password}, &principal)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

// Register 注册，成功时返回带 token 的用户主体
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Principal, error) {
	var principal models.Principal
	err := c.doJSON(ctx, http.MethodPost, "/api/auth", "", nil, registerRequest{Name: name, Email: email, Password: password}, &principal)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

// UpdateProfile 更新用户资料，返回更新后的主体（token 可能缺省）
func (c *Client) UpdateProfile(ctx context.Context, token, id, name, email, password string) (*models.Principal, error) {
	var principal models.Principal
	body := updateProfileRequest{ID: id, Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile", token, nil, body, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}
