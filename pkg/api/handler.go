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

package api

import (
	"net/http"
	"time"

	"github.com/TFMV/AddressForge/internal/formatter"
	"github.com/gin-gonic/gin"
)

// FormatRequest is the body of a single format call. The three switches
// default to true when omitted.
type FormatRequest struct {
	Country          string            `json:"country"`
	Components       map[string]string `json:"components"`
	MinimalOnly      *bool             `json:"minimal_only,omitempty"`
	TagComponents    *bool             `json:"tag_components,omitempty"`
	NormalizeAliases *bool             `json:"normalize_aliases,omitempty"`
}

// BatchFormatRequest wraps multiple format requests.
type BatchFormatRequest struct {
	Requests []FormatRequest `json:"requests"`
}

// FormatResult reports one formatting outcome within a batch.
type FormatResult struct {
	Status    string `json:"status"`
	Formatted string `json:"formatted,omitempty"`
}

func optionsFrom(req FormatRequest) formatter.Options {
	opts := formatter.DefaultOptions()
	if req.MinimalOnly != nil {
		opts.MinimalOnly = *req.MinimalOnly
	}
	if req.TagComponents != nil {
		opts.TagComponents = *req.TagComponents
	}
	if req.NormalizeAliases != nil {
		opts.NormalizeAliases = *req.NormalizeAliases
	}
	return opts
}

// FormatHandler formats a single component set
func FormatHandler(f *formatter.Formatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FormatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		formatted, ok := f.FormatAddress(req.Country, req.Components, optionsFrom(req))
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "no_result"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"formatted": formatted,
		})
	}
}

// FormatBatchHandler formats each request in a batch independently
func FormatBatchHandler(f *formatter.Formatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var batch BatchFormatRequest
		if err := c.ShouldBindJSON(&batch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results := make([]FormatResult, 0, len(batch.Requests))
		for _, req := range batch.Requests {
			formatted, ok := f.FormatAddress(req.Country, req.Components, optionsFrom(req))
			if !ok {
				results = append(results, FormatResult{Status: "no_result"})
				continue
			}
			results = append(results, FormatResult{Status: "success", Formatted: formatted})
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   results,
		})
	}
}

// HealthCheckHandler handles health check requests
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		zuluTime := time.Now().UTC().Format(time.RFC3339)
		c.JSON(http.StatusOK, gin.H{
			"status":   "OK",
			"zuluTime": zuluTime,
		})
	}
}

// SetupRoutes wires the formatting endpoints onto the router
func SetupRoutes(router *gin.Engine, f *formatter.Formatter) {
	router.Use(RequestLogger())
	router.Use(ErrorHandler())

	router.POST("/format", FormatHandler(f))
	router.POST("/format/batch", FormatBatchHandler(f))
	router.GET("/health", HealthCheckHandler())
}
