package infra

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup summary with an environment-specific
// warning. PROD means real money.
func PrintBanner(cfg *Config) {
	color := ColorCyan
	envDesc := "TESTNET (PLAY MONEY)"
	switch cfg.Environment {
	case "PROD":
		color = ColorRed
		envDesc = "PRODUCTION - REAL MONEY"
	case "DEV":
		color = ColorYellow
		envDesc = "DEV CLUSTER"
	}

	investment, _ := decimal.NewFromString(cfg.Trading.InvestmentUSDC)
	effective := investment.Mul(decimal.NewFromInt(cfg.Trading.Leverage))

	fmt.Println()
	fmt.Printf("%s===========================================================%s\n", color, ColorReset)
	fmt.Printf("%s  🚀 GRVT VOLUME GENERATOR%s\n", color, ColorReset)
	fmt.Printf("%s===========================================================%s\n", color, ColorReset)
	fmt.Printf("  Environment:  %s (%s)\n", cfg.Environment, envDesc)
	fmt.Printf("  Market:       %s\n", cfg.Market)
	fmt.Printf("  Investment:   $%s (leverage %dx, effective $%s)\n",
		cfg.Trading.InvestmentUSDC, cfg.Trading.Leverage, effective)
	fmt.Printf("  Volume goal:  $%s in %dh (max loss $%s)\n",
		cfg.Targets.Volume, cfg.Targets.Hours, cfg.Targets.MaxLoss)
	fmt.Printf("  Spread:       %s bps | %d orders/side | refresh %.1fs\n",
		cfg.Trading.SpreadBps, cfg.Trading.OrdersPerSide, cfg.Trading.RefreshInterval)
	fmt.Printf("  Rate limits:  %.0fms between orders, %.0fms after cancel, max %d/side\n",
		cfg.Trading.DelayBetween*1000, cfg.Trading.DelayAfterCancel*1000, cfg.Trading.MaxOrdersToPlace)
	orderType := "LIMIT"
	if cfg.Trading.UsePostOnly {
		orderType = "POST_ONLY"
	}
	fmt.Printf("  Order type:   %s\n", orderType)

	if cfg.Environment == "PROD" {
		fmt.Printf("%s  ⚠️  WARNING: ORDERS WILL REST WITH REAL FUNDS%s\n", ColorRed, ColorReset)
	}
	fmt.Printf("%s===========================================================%s\n", color, ColorReset)
	fmt.Println()
}
