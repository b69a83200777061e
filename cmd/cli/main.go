package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"dayselect-dr/internal/baseline"
	"dayselect-dr/internal/calendar"
	"dayselect-dr/internal/config"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/reward"
	"dayselect-dr/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "cbl":
		cmdCBL(os.Args[2:])
	case "reward":
		cmdReward(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli cbl --data samples.csv --customer CUST-001 --start 2024-06-12T16:00:00+08:00 --end 2024-06-12T20:00:00+08:00 [--contract-capacity 120]")
	fmt.Println("  cli reward --data samples.csv --customer CUST-001 --start ... --end ... --committed 100 [--contract-capacity 120]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - samples.csv columns: customer_id,timestamp,kw (RFC3339 timestamps)")
	fmt.Println("  - cbl prints the 20-day day-select baseline breakdown")
	fmt.Println("  - reward additionally settles the event against committed capacity")
}

type runArgs struct {
	customerID       string
	win              model.TimeWindow
	contractCapacity *float64
	committed        float64
	repo             store.SampleRepository
	loc              *time.Location
	cfg              *config.Config
}

func parseRun(name string, args []string, withCommitted bool) runArgs {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dataPath := fs.String("data", "samples.csv", "Path to meter sample CSV")
	cfgPath := fs.String("config", "", "Optional YAML config path")
	customer := fs.String("customer", "", "Customer ID")
	start := fs.String("start", "", "Event start (RFC3339)")
	end := fs.String("end", "", "Event end (RFC3339)")
	contractCap := fs.Float64("contract-capacity", 0, "Contract capacity kW (0 = uncapped)")
	var committed *float64
	if withCommitted {
		committed = fs.Float64("committed", 0, "Committed reduction capacity kW")
	}
	_ = fs.Parse(args)

	if *customer == "" || *start == "" || *end == "" {
		fmt.Println("--customer, --start and --end are required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	loc, err := cfg.Location()
	if err != nil {
		panic(err)
	}

	startTS, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		panic(fmt.Errorf("invalid --start: %w", err))
	}
	endTS, err := time.Parse(time.RFC3339, *end)
	if err != nil {
		panic(fmt.Errorf("invalid --end: %w", err))
	}

	samples, err := store.ReadSamplesCSV(*dataPath)
	if err != nil {
		panic(err)
	}

	out := runArgs{
		customerID: *customer,
		win:        model.TimeWindow{Start: startTS, End: endTS},
		repo:       store.NewSliceRepo(samples),
		loc:        loc,
		cfg:        cfg,
	}
	if *contractCap > 0 {
		out.contractCapacity = contractCap
	}
	if committed != nil {
		out.committed = *committed
	}
	return out
}

func cmdCBL(args []string) {
	run := parseRun("cbl", args, false)
	res := computeBaseline(run)
	printBaseline(res)
}

func cmdReward(args []string) {
	run := parseRun("reward", args, true)
	base := computeBaseline(run)
	printBaseline(base)

	engine := reward.Engine{Repo: run.repo, Loc: run.loc}
	res, err := engine.ComputeReward(context.Background(), base, run.customerID, run.win, run.committed)
	if err != nil {
		panic(err)
	}

	fmt.Printf("actual_avg_kw=%.2f actual_reduction_kw=%.2f\n", res.ActualAvgKW, res.ActualReductionKW)
	fmt.Printf("execution_rate=%.1f reduction_ratio=%.1f tariff_rate=%.2f duration_h=%.0f\n",
		res.ExecutionRate, res.ReductionRatio, res.TariffRate, res.EventDurationHours)
	fmt.Printf("reward_ntd=%.2f\n", res.RewardNTD)
}

func computeBaseline(run runArgs) *baseline.Result {
	holidays, err := run.cfg.HolidaySet()
	if err != nil {
		panic(err)
	}
	engine := baseline.Engine{
		Repo: run.repo,
		Rules: calendar.RuleSet{
			Season:      calendar.BaselineSeason,
			Holidays:    holidays,
			PriorEvents: calendar.DateSet{},
		},
		Loc:           run.loc,
		Days:          run.cfg.Program.BaselineDays,
		LookbackLimit: run.cfg.Program.LookbackLimitDays,
	}
	res, err := engine.ComputeCBL(context.Background(), run.customerID, run.win, run.contractCapacity)
	if err != nil {
		panic(err)
	}
	return res
}

func printBaseline(res *baseline.Result) {
	fmt.Printf("cbl1_kw=%.2f af_kw=%.2f cbl1_plus_af_kw=%.2f cbl2_kw=%.2f cbl_kw=%.2f\n",
		res.CBL1KW, res.AFKW, res.CBL1PlusAFKW, res.CBL2KW, res.CBLKW)
	fmt.Printf("hist_adjust_avg_kw=%.2f today_adjust_avg_kw=%.2f\n",
		res.HistAdjustAvgKW, res.TodayAdjustAvgKW)
	fmt.Printf("baseline_source_days (%d):\n", len(res.SourceDays))
	for _, d := range res.SourceDays {
		fmt.Printf("  %s\n", d.Format(model.DateKey))
	}
}
