package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/umedzhan/agromarket/internal/models"
)

// addWishlistRequest 加入心愿单请求体
type addWishlistRequest struct {
	ProductID string `json:"productId"`
}

// GetWishlist 拉取完整心愿单
func (c *Client) GetWishlist(ctx context.Context, token string) ([]models.Product, error) {
	var wishlist []models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/wishlist", token, nil, nil, &wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

// AddToWishlist 加入心愿单，后端返回替换后的完整列表
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) ([]models.Product, error) {
	var wishlist []models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/wishlist", token, nil, addWishlistRequest{ProductID: productID}, &wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

// RemoveFromWishlist 移出心愿单，后端返回替换后的完整列表
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) ([]models.Product, error) {
	var wishlist []models.Product
	if err := c.doJSON(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), token, nil, nil, &wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}
