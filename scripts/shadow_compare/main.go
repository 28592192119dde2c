package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// Compares the Go analytics API against the legacy service during the
// migration cutover. Analytics payloads contain randomised synthetic values,
// so bodies are compared structurally: status codes plus the recursive JSON
// key shape, never the figures themselves.

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	ShapeMatch     bool
	MissingKeys    []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/api/v1/analytics/occupancy", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics/revenue", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics/customers", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics/rooms", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics/predictions", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics/dashboard", Critical: false},
	{Method: http.MethodGet, Path: "/health", Critical: false},
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file overriding the built-in endpoint list")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		if comp.Error != nil {
			if t.Critical {
				breaking++
			}
		} else {
			if !comp.StatusMatch || !comp.ShapeMatch {
				if t.Critical {
					breaking++
				} else {
					optionalDiff++
				}
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goBody, goStatus, goDur, goErr := fetch(client, goBase, tgt)
	legacyBody, legacyStatus, legacyDur, legacyErr := fetch(client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus

	goKeys := keyShape(goBody)
	legacyKeys := keyShape(legacyBody)
	comp.MissingKeys = missingFrom(legacyKeys, goKeys)
	comp.ShapeMatch = len(comp.MissingKeys) == 0

	return comp
}

func fetch(client *http.Client, base string, tgt target) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// keyShape flattens the JSON object tree into the sorted set of dotted key
// paths. Array elements collapse to a single []: the per-day records all
// share one schema.
func keyShape(raw []byte) []string {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	set := map[string]struct{}{}
	collectKeys("", doc, set)
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collectKeys(prefix string, v interface{}, set map[string]struct{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			set[path] = struct{}{}
			collectKeys(path, v2, set)
		}
	case []interface{}:
		for _, v2 := range val {
			collectKeys(prefix+"[]", v2, set)
		}
	}
}

func missingFrom(expected, actual []string) []string {
	have := map[string]struct{}{}
	for _, k := range actual {
		have[k] = struct{}{}
	}
	var missing []string
	for _, k := range expected {
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.ShapeMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status match: %t | Shape match: %t | Critical: %t\n", res.StatusMatch, res.ShapeMatch, res.Target.Critical)
		if len(res.MissingKeys) > 0 {
			fmt.Printf("  Missing keys: %s\n", strings.Join(res.MissingKeys, ", "))
		}
	}
}
