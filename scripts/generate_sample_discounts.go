package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// generateSampleDiscounts creates a sample gzipped discount catalogue file in
// the format the importer expects:
//
//	code,type,amount,starts_at,ends_at,active
func main() {
	dataDir := "data/discounts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Hour)
	yearFromNow := now.AddDate(1, 0, 0)
	monthAgo := now.AddDate(0, -1, 0)
	weekAgo := now.AddDate(0, 0, -7)

	type record struct {
		code   string
		dtype  string
		amount string
		starts time.Time
		ends   time.Time
		active bool
	}

	records := []record{
		{"SAVE10", "percentage", "10", now, yearFromNow, true},
		{"SAVE25", "percentage", "25", now, yearFromNow, true},
		{"FLAT5", "fixed", "5.00", now, yearFromNow, true},
		{"FLAT20", "fixed", "20.00", now, yearFromNow, true},
		{"LAUNCH50", "percentage", "50", monthAgo, weekAgo, true},  // expired window
		{"DISABLED15", "percentage", "15", now, yearFromNow, false}, // inactive
	}

	filePath := filepath.Join(dataDir, "discounts.csv.gz")
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	fmt.Fprintln(gz, "# code,type,amount,starts_at,ends_at,active")
	for _, r := range records {
		fmt.Fprintf(gz, "%s,%s,%s,%s,%s,%t\n",
			r.code, r.dtype, r.amount,
			r.starts.Format(time.RFC3339), r.ends.Format(time.RFC3339), r.active,
		)
	}

	if err := gz.Close(); err != nil {
		log.Fatalf("Failed to finish %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d discount codes\n", filePath, len(records))
	fmt.Println("\nUsable codes: SAVE10, SAVE25, FLAT5, FLAT20")
	fmt.Println("Rejected codes: LAUNCH50 (expired), DISABLED15 (inactive)")
}
