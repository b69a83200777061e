package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"dayselect-dr/internal/model"
	"dayselect-dr/internal/seed"
	"dayselect-dr/internal/store"
)

// Seeds demo meter data: 20 days of 15-minute samples with an evening
// trough, plus contract settings, into Redis or a CSV file.
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address (empty to skip Redis)")
	redisDB := flag.Int("db", 0, "Redis DB")
	customer := flag.String("customer", "CUST-001", "Customer ID to seed")
	timezone := flag.String("timezone", "Asia/Taipei", "IANA timezone")
	seedVal := flag.Int64("seed", 42, "RNG seed for deterministic profiles")
	days := flag.Int("days", 20, "Days of history to generate")
	contractValue := flag.Float64("contract-value", 150, "Contract value to store")
	contractCapacity := flag.Float64("contract-capacity", 120, "Contract capacity kW to store")
	out := flag.String("out", "", "Also write the generated samples to this CSV path")
	flag.Parse()

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		panic(fmt.Errorf("invalid timezone: %w", err))
	}

	params := seed.DefaultProfile()
	params.Days = *days
	samples, err := seed.BuildProfile(*customer, time.Now().In(loc), loc, *seedVal, params)
	if err != nil {
		panic(err)
	}

	if *out != "" {
		if err := store.WriteSamplesCSV(*out, samples); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d samples to %s\n", len(samples), *out)
	}

	if *redisAddr == "" {
		return
	}

	st, err := store.NewRedisStore(*redisAddr, *redisDB, "")
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	inserted, err := st.AddSamples(ctx, samples)
	if err != nil {
		panic(err)
	}
	settings := model.Settings{ContractValue: contractValue, ContractCapacityKW: contractCapacity}
	if err := st.SetSettings(ctx, *customer, settings); err != nil {
		panic(err)
	}

	fmt.Printf("Seeded %d samples and settings for %s (timezone %s, seed %d)\n",
		inserted, *customer, *timezone, *seedVal)
}
