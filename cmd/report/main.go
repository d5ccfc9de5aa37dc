package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"finreport/internal/ai"
	"finreport/internal/app"
	"finreport/internal/core"
	"finreport/internal/db"

	"github.com/joho/godotenv"
)

const usage = `Usage: report <command> [args]

Commands:
  periods                      list fiscal years with data
  report <year>                classified report with totals
  vertical <year>              percent-of-base analysis
  horizontal <base> <year>     period-over-period comparison
  ratios <year>                ratio analysis (prior year used when present)
  sources-uses <year>          funds statement vs the prior year
  cashflow <year>              indirect-method cash flow vs the prior year
  dupont <year>                DuPont decomposition vs the prior year
  proforma <year> <growth>     income projection, growth as a fraction (0.10)`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	svc := app.NewAppService(
		core.NewReportService(core.NewPGPeriodSource(pool)),
		core.NewUserService(pool),
		ai.NewSummarizer(os.Getenv("OPENAI_API_KEY")),
	)

	switch os.Args[1] {
	case "periods":
		years, err := svc.ListPeriods(ctx)
		if err != nil {
			log.Fatalf("periods: %v", err)
		}
		printJSON(years)

	case "report":
		result, err := svc.GetReport(ctx, yearArg(2))
		if err != nil {
			log.Fatalf("report: %v", err)
		}
		printJSON(result)

	case "vertical":
		result, err := svc.GetVerticalAnalysis(ctx, yearArg(2), false)
		if err != nil {
			log.Fatalf("vertical: %v", err)
		}
		printJSON(result)

	case "horizontal":
		if len(os.Args) < 4 {
			log.Fatal("Usage: report horizontal <base> <year>")
		}
		result, err := svc.GetHorizontalAnalysis(ctx, yearArg(2), yearArg(3))
		if err != nil {
			log.Fatalf("horizontal: %v", err)
		}
		printJSON(result)

	case "ratios":
		result, err := svc.GetRatios(ctx, yearArg(2))
		if err != nil {
			log.Fatalf("ratios: %v", err)
		}
		printJSON(result)

	case "sources-uses":
		result, err := svc.GetSourcesAndUses(ctx, yearArg(2))
		if err != nil {
			log.Fatalf("sources-uses: %v", err)
		}
		printJSON(result)

	case "cashflow":
		result, err := svc.GetCashFlow(ctx, yearArg(2))
		if err != nil {
			log.Fatalf("cashflow: %v", err)
		}
		printJSON(result)

	case "dupont":
		result, err := svc.GetDuPont(ctx, yearArg(2))
		if err != nil {
			log.Fatalf("dupont: %v", err)
		}
		printJSON(result)

	case "proforma":
		if len(os.Args) < 4 {
			log.Fatal("Usage: report proforma <year> <growth>")
		}
		growth, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			log.Fatalf("invalid growth rate %q", os.Args[3])
		}
		result, err := svc.GetProForma(ctx, yearArg(2), growth)
		if err != nil {
			log.Fatalf("proforma: %v", err)
		}
		printJSON(result)

	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func yearArg(i int) int {
	if len(os.Args) <= i {
		log.Fatal("missing year argument")
	}
	year, err := strconv.Atoi(os.Args[i])
	if err != nil {
		log.Fatalf("invalid year %q", os.Args[i])
	}
	return year
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
