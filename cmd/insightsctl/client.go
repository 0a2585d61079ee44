// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// doRequest issues one API call and returns the response body. Non-2xx
// responses are fatal with the server's error body.
func doRequest(method, path string, body any) []byte {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("Error encoding request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		log.Fatalf("Error building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	key := apiKey
	if key == "" {
		key = os.Getenv("INSIGHTS_API_KEY")
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Fatalf("Error calling insights service: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Error reading response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Fatalf("Server returned %s: %s", resp.Status, string(data))
	}
	return data
}

// printJSON pretty-prints an API response body.
func printJSON(data []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Println(buf.String())
}

func listSessions(cmd *cobra.Command, args []string) {
	printJSON(doRequest(http.MethodGet, "/v1/sessions", nil))
}

func showSession(cmd *cobra.Command, args []string) {
	printJSON(doRequest(http.MethodGet, "/v1/sessions/"+args[0], nil))
}

func deleteSession(cmd *cobra.Command, args []string) {
	printJSON(doRequest(http.MethodDelete, "/v1/sessions/"+args[0], nil))
}

func reportInsight(cmd *cobra.Command, args []string) {
	printJSON(doRequest(http.MethodPost, "/v1/sessions/"+args[0]+"/insights",
		map[string]string{"type": insightType, "message": args[1]}))
}

func getResult(cmd *cobra.Command, args []string) {
	printJSON(doRequest(http.MethodGet, "/v1/sessions/"+args[0]+"/result", nil))
}

func exportResult(cmd *cobra.Command, args []string) {
	data := doRequest(http.MethodGet, "/v1/sessions/"+args[0]+"/result/export/csv", nil)

	path := exportPath
	if path == "" {
		path = fmt.Sprintf("result_%s.csv", args[0])
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Error writing %s: %v", path, err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), path)
}
