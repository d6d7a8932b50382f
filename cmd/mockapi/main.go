package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/umedzhan/agromarket/internal/mockapi"
	"github.com/umedzhan/agromarket/internal/models"
)

// 本地开发用的模拟后端：预置一个账号和一批商品后监听 HTTP
func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "监听地址")
	flag.Parse()

	server := mockapi.NewServer()
	server.AddUser("Demo User", "demo@agromarket.dev", "demo1234", false, false)
	server.AddUser("Admin", "admin@agromarket.dev", "admin1234", true, false)
	seedProducts(server)

	fmt.Printf("mock 后端监听 %s（账号 demo@agromarket.dev / demo1234）\n", addr)
	if err := server.Router().Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "服务运行失败: %v\n", err)
		os.Exit(1)
	}
}

func seedProducts(server *mockapi.Server) {
	seeds := []models.Product{
		{ID: "prod-1", Name: "Organic Tomatoes", Category: "Vegetables", Price: models.NewMoneyFromFloat(4.50), CountInStock: 40, Image: "/images/tomatoes.jpg"},
		{ID: "prod-2", Name: "Fresh Apples", Category: "Fruits", Price: models.NewMoneyFromFloat(3.20), CountInStock: 80, Image: "/images/apples.jpg"},
		{ID: "prod-3", Name: "Free Range Eggs", Category: "Dairy", Price: models.NewMoneyFromFloat(6.00), CountInStock: 25, Image: "/images/eggs.jpg"},
		{ID: "prod-4", Name: "Raw Honey", Category: "Pantry", Price: models.NewMoneyFromFloat(12.90), CountInStock: 15, Image: "/images/honey.jpg"},
		{ID: "prod-5", Name: "Goat Cheese", Category: "Dairy", Price: models.NewMoneyFromFloat(9.75), CountInStock: 10, Image: "/images/cheese.jpg"},
	}
	for _, p := range seeds {
		server.AddProduct(p)
	}
}
