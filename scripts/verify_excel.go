//go:build ignore

// verify_excel checks an Excel report for endpoint rows with a missing method or path
// and for verbs outside the HTTP set. Usage: go run scripts/verify_excel.go report.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true, "TRACE": true,
}

func main() {
	filename := "output/api-analysis.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := "Endpoints"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== EXCEL ENDPOINT CHECK: %s ===\n", filename)
	fmt.Printf("Checking sheet: %s\n", sheetName)
	fmt.Printf("Total rows: %d\n\n", len(rows))

	problems := 0
	endpoints := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // Header / blank
		}
		// Tag rows carry "[tag]" in column A only
		if strings.HasPrefix(row[0], "[") {
			continue
		}
		endpoints++

		method, path := "", ""
		if len(row) > 1 {
			method = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			path = strings.TrimSpace(row[2])
		}

		if method == "" || path == "" {
			fmt.Printf("❌ EMPTY CELL at row %d: method=%q path=%q\n", i+1, method, path)
			problems++
			continue
		}
		if !validMethods[method] {
			fmt.Printf("❌ UNKNOWN VERB at row %d: %q\n", i+1, method)
			problems++
		}
	}

	fmt.Println()
	if problems > 0 {
		fmt.Printf("❌ %d problem(s) in %d endpoint rows\n", problems, endpoints)
		os.Exit(1)
	}
	fmt.Printf("✅ %d endpoint rows verified\n", endpoints)
}
