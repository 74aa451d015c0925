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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/TFMV/AddressForge/internal/formatter"
	"github.com/TFMV/AddressForge/internal/pipeline"
	"github.com/TFMV/AddressForge/pkg/config"
	"github.com/TFMV/AddressForge/pkg/db"
	"github.com/TFMV/AddressForge/pkg/rules"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	runID := flag.Int("run-id", 0, "run to format; 0 creates a new run entry")
	workers := flag.Int("workers", 10, "number of formatting workers")
	configPath := flag.String("config", "config.yaml", "config file used when DATABASE_URL is unset")
	flag.Parse()

	// Connect to the database
	pool, err := openPool(*configPath)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v\n", err)
	}
	defer pool.Close()

	// Load the rule corpus once
	set, err := rules.Load()
	if err != nil {
		log.Fatalf("Unable to load rule corpus: %v\n", err)
	}
	f := formatter.New(set)

	id := *runID
	if id == 0 {
		id = pipeline.CreateNewRun(pool, "Batch Address Formatting")
		if id < 0 {
			log.Fatal("Unable to create run")
		}
	}

	// Format address rows and write results back with concurrency
	pipeline.FormatAddresses(pool, f, *workers, id)
}

// openPool connects via DATABASE_URL when set, otherwise from the db_creds
// section of the config file.
func openPool(configPath string) (*pgxpool.Pool, error) {
	if databaseUrl := os.Getenv("DATABASE_URL"); databaseUrl != "" {
		poolCfg, err := pgxpool.ParseConfig(databaseUrl)
		if err != nil {
			return nil, fmt.Errorf("unable to parse DATABASE_URL: %v", err)
		}
		return pgxpool.NewWithConfig(context.Background(), poolCfg)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_URL not set and config fallback failed: %v", err)
	}
	return db.NewConnection(db.DBCreds{
		Host:     cfg.DBCreds.Host,
		Port:     cfg.DBCreds.Port,
		Username: cfg.DBCreds.Username,
		Password: cfg.DBCreds.Password,
		Database: cfg.DBCreds.Database,
	})
}
