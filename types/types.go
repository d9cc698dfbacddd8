package types

// VideoInfo identifies one video to process.
type VideoInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TranscriptResult is the outcome of one transcript attempt.
// Error is non-empty iff Success is false; Transcript is empty on failure.
type TranscriptResult struct {
	Video      VideoInfo `json:"video"`
	Transcript string    `json:"transcript"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(v VideoInfo, transcript string) TranscriptResult {
	return TranscriptResult{Video: v, Transcript: transcript, Success: true}
}

// Failed builds a failed result. A nil err is reported as "unknown error".
func Failed(v VideoInfo, err error) TranscriptResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return TranscriptResult{Video: v, Success: false, Error: msg}
}

// CaptionTrack describes one caption track advertised by a watch page.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode,omitempty"`
	Kind         string `json:"kind,omitempty"`
	VssID        string `json:"vssId,omitempty"`
}

// Summary aggregates a batch of results.
type Summary struct {
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Failures     []TranscriptResult `json:"failures,omitempty"`
}

// Summarize counts successes and collects failures in order.
func Summarize(results []TranscriptResult) Summary {
	var s Summary
	for _, r := range results {
		if r.Success {
			s.SuccessCount++
			continue
		}
		s.ErrorCount++
		s.Failures = append(s.Failures, r)
	}
	return s
}

// Successful returns the successful results in order.
func Successful(results []TranscriptResult) []TranscriptResult {
	out := make([]TranscriptResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}
