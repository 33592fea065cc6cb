package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	backendEndpoint = "http://localhost:8080/caption/stream"
	style           = "auto"
	length          = "medium"

	mediaKinds = []string{"image", "video"}
)

func main() {
	ctx := context.Background()
	apiKey := os.Getenv("GEMINI_API_KEY")

	var results []BenchResult
	for _, kind := range mediaKinds {
		dataPath := filepath.Join(".", "data", kind)

		files, _ := os.ReadDir(dataPath)

		for _, file := range files {
			filePath := filepath.Join(dataPath, file.Name())
			res := benchmarkFile(ctx, apiKey, kind, filePath)

			if res.Err != nil {
				log.Println("ERR:", res.Err)
			} else {
				log.Printf("OK %s %v", res.File, res.Duration)
			}

			results = append(results, res)
		}
	}

	printMarkdown(results)
}

func benchmarkFile(ctx context.Context, apiKey, kind, filePath string) BenchResult {
	start := time.Now()

	fileRaw, err := os.ReadFile(filePath)
	if err != nil {
		return BenchResult{File: filePath, MediaKind: kind, Err: err}
	}

	body, contentType, err := buildForm(filepath.Base(filePath), fileRaw)
	if err != nil {
		return BenchResult{File: filePath, MediaKind: kind, Err: err}
	}

	var (
		firstProgress time.Duration
		caption       string
	)
	err = sendStream(ctx, apiKey, body, contentType, func(event string, e Event) error {
		switch event {
		case "progress":
			if firstProgress == 0 {
				firstProgress = time.Since(start)
			}
		case "message":
			caption = e.Caption
		case "error":
			return fmt.Errorf("%s: %s", e.Kind, e.Error)
		}
		return nil
	})

	return BenchResult{
		File:          filepath.Base(filePath),
		MediaKind:     kind,
		FirstProgress: firstProgress,
		Duration:      time.Since(start),
		CaptionLen:    len([]rune(caption)),
		Err:           err,
		Size:          int64(len(fileRaw)),
	}
}

func buildForm(name string, raw []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		h.Set("Content-Type", ct)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(raw); err != nil {
		return nil, "", err
	}

	for field, value := range map[string]string{"style": style, "length": length, "hashtags": "true"} {
		if err := mw.WriteField(field, value); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func sendStream(ctx context.Context, apiKey string, body io.Reader, contentType string, onEvent func(string, Event) error) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, backendEndpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		httpReq.Header.Set("X-API-Key", apiKey)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(b)),
		)
	}

	reader := bufio.NewReader(resp.Body)

	event := "message"
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)

		if name, ok := strings.CutPrefix(line, "event: "); ok {
			event = name
			continue
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		payload := strings.TrimPrefix(line, "data: ")
		if event == "done" {
			return nil
		}

		var e Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return fmt.Errorf("unexpected payload: %s", payload)
		}

		if err := onEvent(event, e); err != nil {
			return err
		}
	}
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		a := m[r.MediaKind]
		if r.Err != nil {
			a.Failed++
			m[r.MediaKind] = a
			continue
		}
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		a.FirstProgress += r.FirstProgress
		m[r.MediaKind] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Println("\n## Benchmark Results\n")
	fmt.Println("| Media | Requests | Failed | Avg First Progress | Avg Time | Total Time | Avg File Size |")
	fmt.Println("|-------|----------|--------|--------------------|----------|------------|---------------|")

	agg := aggregate(results)
	kinds := make([]string, 0, len(agg))
	for kind := range agg {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	var (
		totalCount    int
		totalFailed   int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, kind := range kinds {
		a := agg[kind]
		totalFailed += a.Failed
		if a.Count == 0 {
			fmt.Printf("| %s | 0 | %d | - | - | - | - |\n", kind, a.Failed)
			continue
		}
		avg := a.Total / time.Duration(a.Count)
		avgFirst := a.FirstProgress / time.Duration(a.Count)
		avgSize := a.TotalBytes / int64(a.Count)
		fmt.Printf("| %s | %d | %d | %v | %v | %v | %s |\n",
			kind,
			a.Count,
			a.Failed,
			avgFirst.Round(time.Millisecond),
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanBytes(avgSize),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		avgSize := totalBytes / int64(totalCount)
		fmt.Printf("| **ALL** | %d | %d | - | %v | %v | %s |\n",
			totalCount,
			totalFailed,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanBytes(avgSize),
		)
	}
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
