// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package pipeline formats address component rows stored in Postgres,
// fanning the work across a pool of goroutines and writing the formatted
// strings back in batches.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/TFMV/AddressForge/internal/formatter"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AddressRow is one row of the address_components table.
type AddressRow struct {
	ID          int
	CountryCode string
	Components  map[string]string
}

// FormattedRow pairs a source row with its rendered address.
type FormattedRow struct {
	ID        int
	Formatted string
}

// CreateNewRun creates a new run entry in the database and returns the run_id
func CreateNewRun(pool *pgxpool.Pool, description string) int {
	var runID int
	err := pool.QueryRow(context.Background(), "INSERT INTO runs (description) VALUES ($1) RETURNING run_id", description).Scan(&runID)
	if err != nil {
		fmt.Printf("Failed to create new run: %v\n", err)
		return -1
	}
	return runID
}

// FormatAddresses streams address rows for a run through the formatter with
// numWorkers goroutines and batch-inserts the results. Rows the formatter
// cannot produce a result for are skipped with a log line.
func FormatAddresses(pool *pgxpool.Pool, f *formatter.Formatter, numWorkers int, runID int) {
	rows, err := pool.Query(context.Background(),
		`SELECT address_id, country_code, house_number, road, suburb, city, state, postcode
		 FROM address_components WHERE run_id = $1`, runID)
	if err != nil {
		log.Fatalf("Query failed: %v\n", err)
	}
	defer rows.Close()

	var wg sync.WaitGroup
	addressCh := make(chan AddressRow, 1000)
	resultCh := make(chan FormattedRow, 1000)

	opts := formatter.DefaultOptions()
	opts.TagComponents = false

	// Start worker goroutines
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range addressCh {
				formatted, ok := f.FormatAddress(row.CountryCode, row.Components, opts)
				if !ok {
					log.Printf("Skipping address %d: insufficient components\n", row.ID)
					continue
				}
				resultCh <- FormattedRow{ID: row.ID, Formatted: formatted}
			}
		}()
	}

	// Insert results in batches
	done := make(chan struct{})
	go func() {
		defer close(done)
		var batchSize = 1000
		var batch []FormattedRow
		for res := range resultCh {
			batch = append(batch, res)
			if len(batch) >= batchSize {
				log.Printf("Inserting batch of size %d into formatted_addresses\n", len(batch))
				InsertBatch(pool, batch, runID)
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			log.Printf("Inserting final batch of size %d into formatted_addresses\n", len(batch))
			InsertBatch(pool, batch, runID)
		}
	}()

	// Enqueue rows for processing
	for rows.Next() {
		row, err := scanAddressRow(rows)
		if err != nil {
			log.Fatalf("Row scan failed: %v\n", err)
		}
		addressCh <- row
	}
	close(addressCh)
	wg.Wait()
	close(resultCh)
	<-done
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddressRow(rows rowScanner) (AddressRow, error) {
	var (
		id                                               int
		country                                          string
		houseNumber, road, suburb, city, state, postcode *string
	)
	if err := rows.Scan(&id, &country, &houseNumber, &road, &suburb, &city, &state, &postcode); err != nil {
		return AddressRow{}, err
	}

	components := make(map[string]string)
	set := func(name string, value *string) {
		if value != nil && *value != "" {
			components[name] = *value
		}
	}
	set(formatter.HouseNumber, houseNumber)
	set(formatter.Road, road)
	set(formatter.Suburb, suburb)
	set(formatter.City, city)
	set(formatter.State, state)
	set(formatter.Postcode, postcode)

	return AddressRow{ID: id, CountryCode: country, Components: components}, nil
}

// InsertBatch inserts a batch of formatted rows into the database
func InsertBatch(pool *pgxpool.Pool, batch []FormattedRow, runID int) {
	batchSize := len(batch)
	ids := make([]interface{}, batchSize)
	texts := make([]interface{}, batchSize)

	for i, record := range batch {
		ids[i] = record.ID
		texts[i] = record.Formatted
	}

	log.Printf("Executing batch insert with %d records\n", batchSize)
	_, err := pool.Exec(context.Background(),
		"INSERT INTO formatted_addresses (address_id, formatted, run_id) SELECT UNNEST($1::int[]), UNNEST($2::text[]), $3",
		ids, texts, runID,
	)
	if err != nil {
		log.Fatalf("Batch insert failed: %v\n", err)
	}
}
