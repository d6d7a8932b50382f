package state

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/mockapi"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/store"
)

func setupStoreTest(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	return s
}

// setupBackendTest 启动内存后端并返回带请求计数的客户端
func setupBackendTest(t *testing.T, backend *mockapi.Server) (*api.Client, *int32) {
	t.Helper()
	var hits int32
	router := backend.Router()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, 0), &hits
}

func testProduct(id, name string, price float64, stock int) models.Product {
	return models.Product{
		ID:           id,
		Name:         name,
		Image:        "/images/" + id + ".jpg",
		Price:        models.NewMoneyFromFloat(price),
		CountInStock: stock,
	}
}
