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
	"fmt"
	"log"
	"os"

	"github.com/TFMV/AddressForge/internal/formatter"
	"github.com/TFMV/AddressForge/pkg/api"
	"github.com/TFMV/AddressForge/pkg/config"
	"github.com/TFMV/AddressForge/pkg/rules"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration, falling back to defaults when config.yaml is absent
	configPath := "config.yaml"
	cfg := &config.Config{}
	cfg.Server.Listen = ":8080"
	if _, statErr := os.Stat(configPath); statErr == nil {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Load the rule corpus: a checkout of the formatting rules when
	// configured, otherwise the corpus embedded in the binary
	var set *rules.Set
	var err error
	if cfg.Formatter.RulesDir != "" {
		set, err = rules.LoadDir(cfg.Formatter.RulesDir)
	} else {
		set, err = rules.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load rule corpus: %v", err)
	}
	fmt.Println("Rule corpus loaded successfully")

	var opts []formatter.Option
	if cfg.Formatter.Splitter != "" {
		opts = append(opts, formatter.WithSplitter(cfg.Formatter.Splitter))
	}
	f := formatter.New(set, opts...)

	// Set up the HTTP server
	router := gin.Default()
	api.SetupRoutes(router, f)
	fmt.Printf("Starting server on %s\n", cfg.Server.Listen)
	log.Fatal(router.Run(cfg.Server.Listen))
}
