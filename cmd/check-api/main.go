// Command check-api calls the Intervals.icu endpoints the MCP server uses
// and prints what comes back, to verify credentials outside an agent.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://intervals.icu/api/v1"

func main() {
	apiKey := os.Getenv("API_KEY")
	athleteID := os.Getenv("ATHLETE_ID")
	if apiKey == "" || athleteID == "" {
		fmt.Println("❌ API_KEY and ATHLETE_ID must be set")
		os.Exit(1)
	}

	baseURL := resolveBaseURL(os.Getenv)

	fmt.Printf("🔗 Testing Intervals.icu API endpoints for athlete %s at %s\n", athleteID, baseURL)
	fmt.Println()

	fmt.Println("1️⃣ Testing Athlete Profile...")
	testEndpoint(baseURL, "/athlete/"+athleteID, apiKey, nil)

	params := url.Values{}
	end := time.Now()
	start := end.AddDate(0, 0, -7)
	params.Set("oldest", start.Format("2006-01-02"))
	params.Set("newest", end.Format("2006-01-02"))

	fmt.Println("\n2️⃣ Testing Activities...")
	activities := url.Values{"limit": {"5"}}
	for k, v := range params {
		activities[k] = v
	}
	testEndpoint(baseURL, "/athlete/"+athleteID+"/activities", apiKey, activities)

	fmt.Println("\n3️⃣ Testing Wellness Data...")
	testEndpoint(baseURL, "/athlete/"+athleteID+"/wellness", apiKey, params)

	fmt.Println("\n4️⃣ Testing Events...")
	upcoming := url.Values{}
	upcoming.Set("oldest", end.Format("2006-01-02"))
	upcoming.Set("newest", end.AddDate(0, 0, 30).Format("2006-01-02"))
	testEndpoint(baseURL, "/athlete/"+athleteID+"/events", apiKey, upcoming)

	fmt.Println("\n5️⃣ Testing Power Curves...")
	testEndpoint(baseURL, "/athlete/"+athleteID+"/power-curves", apiKey, url.Values{"curves": {"42d"}, "type": {"Ride"}})
}

// resolveBaseURL honours INTERVALS_API_BASE_URL like the server does.
func resolveBaseURL(getenv func(string) string) string {
	if u := getenv("INTERVALS_API_BASE_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultBaseURL
}

func testEndpoint(baseURL, path string, apiKey string, params url.Values) {
	requestURL := baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	fmt.Printf("   📡 GET %s\n", requestURL)

	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		fmt.Printf("   ❌ Failed to create request: %v\n", err)
		return
	}
	req.SetBasicAuth("API_KEY", apiKey)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("   ❌ Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("   ❌ Failed to read response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("   ❌ HTTP %d: %s\n", resp.StatusCode, string(body))
		return
	}

	var result interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("   ❌ Failed to parse JSON: %v\n", err)
		return
	}

	summary := "object"
	if list, ok := result.([]interface{}); ok {
		summary = fmt.Sprintf("list of %d", len(list))
	}
	fmt.Printf("   ✅ Success (%d bytes, %s)\n", len(body), summary)
}
