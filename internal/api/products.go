package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/umedzhan/agromarket/internal/models"
)

// ListProductsInput 商品列表查询参数
type ListProductsInput struct {
	Keyword    string
	PageNumber int
	Category   string
	MyProducts bool   // 仅农户本人发布的商品
	Token      string // MyProducts 查询需要认证
}

// ListProducts 分页查询商品列表
func (c *Client) ListProducts(ctx context.Context, input ListProductsInput) (*models.ProductPage, error) {
	query := url.Values{}
	if strings.TrimSpace(input.Keyword) != "" {
		query.Set("keyword", input.Keyword)
	}
	if input.PageNumber > 0 {
		query.Set("pageNumber", strconv.Itoa(input.PageNumber))
	}
	if strings.TrimSpace(input.Category) != "" {
		query.Set("category", input.Category)
	}
	if input.MyProducts {
		query.Set("myproducts", "true")
	}

	var page models.ProductPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", input.Token, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct 查询商品详情
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
