package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"arv-estimator/internal/cache"
	"arv-estimator/internal/config"
	"arv-estimator/internal/fetcher"
	"arv-estimator/internal/geocoder"
	"arv-estimator/internal/models"
	"arv-estimator/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	address := flag.String("address", "", "Property address to estimate; omit for an interactive prompt")
	configDir := flag.String("config", "./configs", "Directory holding app.env")
	flag.Parse()

	// Keep structured logs off the interactive output.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	var memo cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		memo = cache.NewRedis(cfg.RedisAddr)
	}

	geo := geocoder.NewClient(cfg.NominatimURL, cfg.HTTPTimeout, log.Logger)
	pages := fetcher.New(cfg.HTTPTimeout, cfg.FetchDelay, log.Logger)

	svc := service.NewARVService(geo, pages, memo, service.Options{
		SiteBaseURL: cfg.SiteBaseURL,
		CacheTTL:    cfg.CacheTTL,
		RecencyDays: cfg.RecencyDays,
	}, log.Logger)

	if *address != "" {
		run(svc, *address)
		return
	}

	// Interactive loop: one address per line, blank line or EOF to quit.
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Property address (blank to quit): ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}
		run(svc, line)
	}
}

func run(svc *service.ARVService, address string) {
	report, err := svc.Estimate(context.Background(), address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	render(report)
}

func render(report models.Report) {
	t := report.Target
	fmt.Println()
	fmt.Println("Target property")
	fmt.Printf("  Address:    %s\n", t.Address)
	fmt.Printf("  Beds:       %d\n", t.Beds)
	fmt.Printf("  Baths:      %g\n", t.Baths)
	fmt.Printf("  Sq Ft:      %s\n", thousands(t.SqFt))
	fmt.Printf("  Lot Sq Ft:  %s\n", thousands(t.LotSqFt))
	fmt.Printf("  Year Built: %d\n", t.YearBuilt)
	if t.HasCoordinates() {
		fmt.Printf("  Location:   %.6f, %.6f\n", *t.Latitude, *t.Longitude)
	}

	if len(report.Comps) > 0 {
		fmt.Println()
		fmt.Println("Comparable recently sold properties")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  ADDRESS\tBEDS\tBATHS\tSQFT\tSOLD DATE\tSOLD PRICE")
		for _, c := range report.Comps {
			fmt.Fprintf(w, "  %s\t%d\t%g\t%s\t%s\t$%s\n",
				c.Address, c.Beds, c.Baths, thousands(c.SqFt), c.SoldDate, thousands(c.SoldPrice))
		}
		_ = w.Flush()
	}

	fmt.Println()
	fmt.Printf("Estimated ARV (median sold price): $%s, based on %d comps\n",
		thousands(int(report.Estimate+0.5)), len(report.Comps))

	for _, warning := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

// thousands formats 1234567 as "1,234,567".
func thousands(v int) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
