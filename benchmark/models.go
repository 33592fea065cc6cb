package main

import "time"

type Event struct {
	Stage   string `json:"stage"`
	Caption string `json:"caption"`
	Kind    string `json:"kind"`
	Error   string `json:"error"`
}

type BenchResult struct {
	File          string
	MediaKind     string
	FirstProgress time.Duration
	Duration      time.Duration
	CaptionLen    int
	Err           error
	Size          int64
}

type Agg struct {
	Count         int
	Total         time.Duration
	FirstProgress time.Duration
	TotalBytes    int64
	Failed        int
}
