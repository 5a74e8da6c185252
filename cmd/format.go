package cmd

import (
	"fmt"
	"os"

	"github.com/hikaru-dev/watchscout/internal/models"
	"github.com/hikaru-dev/watchscout/internal/report"
)

// printListingsTable prints search hits in a human-friendly card layout.
func printListingsTable(listings []models.Listing) {
	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, l.URL)
		fmt.Fprintf(os.Stdout, "    %s\n", truncate(l.Content, 160))
	}
}

// printRecordsTable prints extracted records in a card layout with the
// same price formatting the Excel report uses.
func printRecordsTable(records []models.WatchRecord) {
	for i, r := range records {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, strOr(r.Name, "(unnamed)"))
		fmt.Fprintf(os.Stdout, "    Price: %s  |  Seller: %s\n", report.FormatPrice(r.Price), strOr(r.Seller, "?"))
		if r.ModelNumber != nil || r.DialColor != nil || r.BraceletType != nil {
			fmt.Fprintf(os.Stdout, "    Model: %s  Dial: %s  Bracelet: %s\n",
				strOr(r.ModelNumber, "?"), strOr(r.DialColor, "?"), strOr(r.BraceletType, "?"))
		}
		if r.URL != nil {
			fmt.Fprintf(os.Stdout, "    %s\n", *r.URL)
		}
		if r.Error != nil {
			fmt.Fprintf(os.Stdout, "    Error: %s\n", *r.Error)
		}
	}
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
