package main

import (
	"bytes"
	"encoding/csv"
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

	"github.com/fatih/color"
)

// Offline quality harness: replays persona queries from a CSV against a
// running chat endpoint and scores each answer with the same heuristics
// on every run, so score drift between builds is meaningful.

type evaluation struct {
	AccuracyScore  float64
	RelevanceScore float64
	OverallScore   float64
	Feedback       []string
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Reply string `json:"reply"`
	} `json:"data"`
}

var detailIndicators = []string{
	"specific", "details", "recommendation", "tip", "local",
	"insider", "pro", "best", "visit", "try", "check", "enjoy",
}

func main() {
	inputPath := flag.String("input", "sf_users_personas.csv", "input CSV with a 'query' column")
	outputPath := flag.String("output", "test_results.csv", "output CSV for per-query scores")
	endpoint := flag.String("endpoint", "http://localhost:3000/api/chat/v1", "chat endpoint to evaluate")
	limit := flag.Int("limit", 0, "max queries to process (0 = all)")
	flag.Parse()

	queries, err := readQueries(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read input CSV: %v", err)
	}
	if *limit > 0 && len(queries) > *limit {
		queries = queries[:*limit]
	}
	if len(queries) == 0 {
		log.Fatalf("No queries found in %s", *inputPath)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	evaluations := make([]evaluation, 0, len(queries))
	var runningOverall float64

	for i, query := range queries {
		fmt.Printf("Calling backend for query %d/%d...\n", i+1, len(queries))
		reply, err := askBackend(client, *endpoint, query)
		if err != nil {
			color.Red("Query %d failed: %v", i+1, err)
			reply = ""
		}

		result := evaluate(query, reply)
		evaluations = append(evaluations, result)
		runningOverall += result.OverallScore

		fmt.Printf("Running average overall score: %.1f%%\n", runningOverall/float64(len(evaluations))*100)
		fmt.Printf("Processed: %d / %d | Last overall score: %.1f%%\n", len(evaluations), len(queries), result.OverallScore*100)
	}

	if err := writeResults(*outputPath, evaluations); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	printSummary(evaluations)
}

// readQueries accepts either a header named "query" or, matching the
// historical persona export format, the fifth column.
func readQueries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	queryColumn := 4
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "query") {
			queryColumn = i
			break
		}
	}

	var queries []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if queryColumn >= len(record) {
			continue
		}
		query := strings.TrimSpace(record[queryColumn])
		if query != "" {
			queries = append(queries, query)
		}
	}
	return queries, nil
}

func askBackend(client *http.Client, endpoint, query string) (string, error) {
	body, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Data.Reply, nil
}

func evaluate(query, reply string) evaluation {
	if strings.TrimSpace(reply) == "" {
		return evaluation{Feedback: []string{"Response is undefined or empty"}}
	}

	var feedback []string
	accuracy := evaluateAccuracy(query, reply, &feedback)
	relevance := evaluateRelevance(query, reply, &feedback)

	return evaluation{
		AccuracyScore:  accuracy,
		RelevanceScore: relevance,
		OverallScore:   (accuracy + relevance) / 2,
		Feedback:       feedback,
	}
}

// evaluateAccuracy checks that the answer stays on location and carries
// itinerary structure: markdown sections and actionable tips.
func evaluateAccuracy(query, reply string, feedback *[]string) float64 {
	lowered := strings.ToLower(reply)
	var score float64
	totalChecks := 3.0

	if strings.Contains(lowered, "san francisco") {
		score++
	} else {
		score += 0.4
		*feedback = append(*feedback, "Location information missing or incorrect")
	}

	sectionCount := strings.Count(reply, "#") + strings.Count(reply, ":")
	if sectionCount >= 3 {
		score++
	} else {
		score += 0.4
		*feedback = append(*feedback, "Response lacks itinerary structure")
	}

	hasTips := false
	for _, indicator := range []string{"tip", "recommend", "suggest", "insider"} {
		if strings.Contains(lowered, indicator) {
			hasTips = true
			break
		}
	}
	if hasTips {
		score++
	} else {
		score += 0.4
		*feedback = append(*feedback, "Missing local tips and insights")
	}

	// Small bonus for bullet-heavy answers
	if strings.Count(reply, "\n-")+strings.Count(reply, "\n*")+strings.Count(reply, "\n•") >= 2 {
		score += 0.1
	}

	return clamp(score / totalChecks)
}

// evaluateRelevance measures query-term coverage, length band and
// concrete detail markers.
func evaluateRelevance(query, reply string, feedback *[]string) float64 {
	lowered := strings.ToLower(reply)
	var score float64
	totalChecks := 3.0

	replyLength := len(reply)
	switch {
	case replyLength > 50 && replyLength < 4000:
		score++
	case replyLength > 30:
		score += 0.7
	default:
		score += 0.4
		*feedback = append(*feedback, "Response length not optimal")
	}

	queryWords := significantWords(query)
	matching := 0
	for _, word := range queryWords {
		if strings.Contains(lowered, word) {
			matching++
		}
	}
	switch {
	case len(queryWords) > 0 && float64(matching) >= float64(len(queryWords))*0.5:
		score++
	case matching > 0:
		score += 0.7
	default:
		score += 0.4
		*feedback = append(*feedback, "Response doesn't directly address query")
	}

	hasDetails := false
	for _, indicator := range detailIndicators {
		if strings.Contains(lowered, indicator) {
			hasDetails = true
			break
		}
	}
	if hasDetails {
		score++
	} else {
		score += 0.4
		*feedback = append(*feedback, "Response lacks specific details")
	}

	return clamp(score / totalChecks)
}

func significantWords(query string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func writeResults(path string, evaluations []evaluation) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"ACCURACY_SCORE", "RELEVANCE_SCORE", "OVERALL_SCORE"}); err != nil {
		return err
	}
	for _, result := range evaluations {
		record := []string{
			fmt.Sprintf("%.3f", result.AccuracyScore),
			fmt.Sprintf("%.3f", result.RelevanceScore),
			fmt.Sprintf("%.3f", result.OverallScore),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(evaluations []evaluation) {
	total := float64(len(evaluations))
	var accuracy, relevance, overall float64
	highScores := 0
	feedbackCount := make(map[string]int)

	for _, result := range evaluations {
		accuracy += result.AccuracyScore
		relevance += result.RelevanceScore
		overall += result.OverallScore
		if result.OverallScore >= 0.7 {
			highScores++
		}
		for _, entry := range result.Feedback {
			feedbackCount[entry]++
		}
	}

	type countedFeedback struct {
		text  string
		count int
	}
	common := make([]countedFeedback, 0, len(feedbackCount))
	for text, count := range feedbackCount {
		common = append(common, countedFeedback{text, count})
	}
	sort.Slice(common, func(i, j int) bool { return common[i].count > common[j].count })
	if len(common) > 5 {
		common = common[:5]
	}

	bold := color.New(color.Bold)
	bold.Println("\n=== Test Results Summary ===")
	fmt.Printf("Total Queries Processed: %d\n", len(evaluations))
	fmt.Printf("Average Accuracy Score: %.1f%%\n", accuracy/total*100)
	fmt.Printf("Average Relevance Score: %.1f%%\n", relevance/total*100)
	fmt.Printf("Average Overall Score: %.1f%%\n", overall/total*100)
	color.Green("High Quality Responses (>= 70%%): %d", highScores)
	if len(common) > 0 {
		fmt.Println("\nCommon Feedback Points:")
		for _, entry := range common {
			color.Yellow("- %s (%d)", entry.text, entry.count)
		}
	}
	bold.Println("========================")
}
