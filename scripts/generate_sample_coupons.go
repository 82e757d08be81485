package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// main writes sample coupon tables for local runs and the coupon
// integration test. Each line is CODE,PERCENT.
func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]string{
		"seasonal.gz": {
			"# seasonal promotions",
			"SPRING25,25",
			"SUMMER30,30",
			"BLACKFRIDAY,35",
		},
		"partners.gz": {
			"PARTNER12,12",
			"STUDENT10,10",
			// overrides the seasonal table when loaded after it
			"BLACKFRIDAY,40",
		},
	}

	for filename, lines := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createCouponFile(filePath, lines); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d lines\n", filePath, len(lines))
	}

	fmt.Println("\nSet COUPON_FILES=data/coupons/seasonal.gz,data/coupons/partners.gz to load them.")
}

func createCouponFile(filePath string, lines []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", line); err != nil {
			return fmt.Errorf("failed to write coupon: %w", err)
		}
	}

	return nil
}
