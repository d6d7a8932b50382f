package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/config"
	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/logger"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/provider"
)

func main() {
	fmt.Println("AgroMarket storefront")

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Client.Mode, cfg.Log.ToLoggerOptions())

	// 初始化容器（含会话恢复）
	container, err := provider.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	if principal := container.Session.Current(); principal != nil {
		fmt.Printf("欢迎回来，%s\n", principal.Name)
	}

	runShell(container)
}

func runShell(c *provider.Container) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	fmt.Println("输入 help 查看可用命令")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command, args := fields[0], fields[1:]

		switch command {
		case "help":
			printHelp()
		case "quit", "exit":
			return

		case "login":
			if len(args) != 2 {
				fmt.Println("用法: login <email> <password>")
				continue
			}
			c.Session.Login(ctx, args[0], args[1])
		case "register":
			if len(args) != 3 {
				fmt.Println("用法: register <name> <email> <password>")
				continue
			}
			c.Session.Register(ctx, args[0], args[1], args[2])
		case "logout":
			c.Session.Logout()
		case "whoami":
			principal := c.Session.Current()
			if principal == nil {
				fmt.Println("未登录")
				continue
			}
			fmt.Printf("%s <%s> admin=%v farmer=%v\n", principal.Name, principal.Email, principal.IsAdmin, principal.IsFarmer)
		case "profile":
			if len(args) < 2 {
				fmt.Println("用法: profile <name> <email> [password]")
				continue
			}
			password := ""
			if len(args) > 2 {
				password = args[2]
			}
			c.Session.UpdateProfile(ctx, args[0], args[1], password)

		case "products":
			keyword := strings.Join(args, " ")
			page, err := c.APIClient.ListProducts(ctx, api.ListProductsInput{Keyword: keyword, PageNumber: 1})
			if err != nil {
				fmt.Println(api.Message(err))
				continue
			}
			for _, p := range page.Products {
				fmt.Printf("%-12s %-24s %8s 库存 %d\n", p.ID, p.Name, p.Price.String(), p.CountInStock)
			}
		case "add":
			if len(args) < 1 {
				fmt.Println("用法: add <productID> [qty]")
				continue
			}
			qty := 1
			if len(args) > 1 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					qty = n
				}
			}
			product, err := c.APIClient.GetProduct(ctx, args[0])
			if err != nil {
				fmt.Println(api.Message(err))
				continue
			}
			c.Cart.AddToCart(*product, qty)
		case "remove":
			if len(args) != 1 {
				fmt.Println("用法: remove <productID>")
				continue
			}
			c.Cart.RemoveFromCart(args[0])
		case "cart":
			printCart(c)
		case "clear":
			c.Cart.ClearCart()

		case "wishlist":
			if err := c.Wishlist.Fetch(ctx); err != nil {
				fmt.Println(api.Message(err))
				continue
			}
			for _, p := range c.Wishlist.Items() {
				fmt.Printf("%-12s %-24s %8s\n", p.ID, p.Name, p.Price.String())
			}
		case "wish":
			if len(args) != 1 {
				fmt.Println("用法: wish <productID>")
				continue
			}
			c.Wishlist.Add(ctx, args[0])
		case "unwish":
			if len(args) != 1 {
				fmt.Println("用法: unwish <productID>")
				continue
			}
			c.Wishlist.Remove(ctx, args[0])

		case "shipping":
			// 分号分隔：街道;城市;邮编;国家
			parts := strings.Split(strings.Join(args, " "), ";")
			if len(parts) != 4 {
				fmt.Println("用法: shipping <address>;<city>;<postalCode>;<country>")
				continue
			}
			address := models.ShippingAddress{
				Address:    strings.TrimSpace(parts[0]),
				City:       strings.TrimSpace(parts[1]),
				PostalCode: strings.TrimSpace(parts[2]),
				Country:    strings.TrimSpace(parts[3]),
			}
			if err := c.Checkout.SaveShippingAddress(address); err != nil {
				fmt.Println("地址不完整，四个字段均为必填")
				continue
			}
			fmt.Println("收货地址已保存")
		case "payment":
			if len(args) != 1 {
				fmt.Printf("用法: payment <%s>\n", strings.Join(constants.PaymentMethods, "|"))
				continue
			}
			if err := c.Checkout.SavePaymentMethod(args[0]); err != nil {
				fmt.Printf("不支持的支付方式，可选: %s\n", strings.Join(constants.PaymentMethods, ", "))
				continue
			}
			fmt.Println("支付方式已保存")

		case "summary":
			printSummary(c)
		case "placeorder":
			step := c.OrderService.NextStep()
			if step != constants.CheckoutStepReady {
				fmt.Printf("尚未就绪，请先完成步骤: %s\n", step)
				continue
			}
			order, err := c.OrderService.PlaceOrder(ctx)
			if err != nil {
				continue
			}
			fmt.Printf("订单已创建: %s 总价 %s\n", order.ID, order.TotalPrice.String())
		case "orders":
			orders, err := c.OrderService.MyOrders(ctx)
			if err != nil {
				fmt.Println(api.Message(err))
				continue
			}
			for _, o := range orders {
				fmt.Printf("%-12s %8s 已支付=%v 已送达=%v\n", o.ID, o.TotalPrice.String(), o.IsPaid, o.IsDelivered)
			}
		case "order":
			if len(args) != 1 {
				fmt.Println("用法: order <orderID>")
				continue
			}
			order, err := c.OrderService.GetOrder(ctx, args[0])
			if err != nil {
				fmt.Println(api.Message(err))
				continue
			}
			fmt.Printf("%s %s %s 总价 %s\n", order.ID, order.PaymentMethod, order.ShippingAddress.City, order.TotalPrice.String())

		default:
			fmt.Printf("未知命令: %s（输入 help 查看帮助）\n", command)
		}
	}
}

func printCart(c *provider.Container) {
	items := c.Cart.Items()
	if len(items) == 0 {
		fmt.Println("购物车为空")
		return
	}
	for _, item := range items {
		fmt.Printf("%-12s %-24s %8s x %d\n", item.ProductID, item.Name, item.Price.String(), item.Qty)
	}
}

func printSummary(c *provider.Container) {
	printCart(c)
	breakdown := c.OrderService.Breakdown()
	fmt.Printf("商品小计: %s\n", breakdown.ItemsPrice.String())
	fmt.Printf("运费:     %s\n", breakdown.ShippingPrice.String())
	fmt.Printf("税费:     %s\n", breakdown.TaxPrice.String())
	fmt.Printf("总价:     %s\n", breakdown.TotalPrice.String())
	if address, ok := c.Checkout.ShippingAddress(); ok {
		fmt.Printf("收货地址: %s, %s, %s, %s\n", address.Address, address.City, address.PostalCode, address.Country)
	}
	if method := c.Checkout.PaymentMethod(); method != "" {
		fmt.Printf("支付方式: %s\n", method)
	}
}

func printHelp() {
	fmt.Println(`会话:   login register logout whoami profile
商品:   products add remove cart clear
心愿单: wishlist wish unwish
结算:   shipping payment summary placeorder orders order
其他:   help quit`)
}
