package domain

import "fmt"

// Pipeline identifies one fetch pipeline of an orchestration run.
type Pipeline string

// Available pipelines.
const (
	PipelineVideo Pipeline = "video"
	PipelinePaper Pipeline = "paper"
)

// Attempt records one fallback strategy invocation.
type Attempt struct {
	// Strategy is the strategy name (e.g., "youtube", "youtube-broadened").
	Strategy string `json:"strategy"`

	// Query is the exact query sent to the provider.
	Query string `json:"query"`

	// Count is the number of items the provider returned.
	Count int `json:"count"`

	// Error is the provider error message, empty on success.
	Error string `json:"error,omitempty"`
}

// FetchReport describes how a pipeline reached its result.
type FetchReport struct {
	// Pipeline is the pipeline the report belongs to.
	Pipeline Pipeline `json:"pipeline"`

	// Strategy is the name of the winning strategy, empty when nothing was found.
	Strategy string `json:"strategy,omitempty"`

	// Attempts lists every strategy tried, in order.
	Attempts []Attempt `json:"attempts"`
}

// Failed returns true if any attempt returned an error.
func (r FetchReport) Failed() bool {
	for _, a := range r.Attempts {
		if a.Error != "" {
			return true
		}
	}
	return false
}

// AddReport summarises one EmbeddingStore.Add call.
type AddReport struct {
	// Added is the number of records appended.
	Added int `json:"added"`

	// Skipped is the number of resources that could not be embedded or appended.
	Skipped int `json:"skipped"`

	// Errors holds one message per skipped resource.
	Errors []string `json:"errors,omitempty"`
}

// Diagnostics carries degraded-path information back to the caller.
// A nil *Diagnostics means the operation ran cleanly.
type Diagnostics struct {
	// Fetch holds the reports of pipelines that saw provider failures.
	Fetch []FetchReport `json:"fetch,omitempty"`

	// Index is the embedding report when indexing was partial.
	Index *AddReport `json:"index,omitempty"`

	// Errors holds free-form failure messages.
	Errors []string `json:"errors,omitempty"`
}

// Errorf appends a formatted message to Errors.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

// Empty returns true if nothing was recorded.
func (d *Diagnostics) Empty() bool {
	return d == nil || (len(d.Fetch) == 0 && d.Index == nil && len(d.Errors) == 0)
}

// OrNil returns d when it holds information, nil otherwise.
func (d *Diagnostics) OrNil() *Diagnostics {
	if d.Empty() {
		return nil
	}
	return d
}

// Messages flattens the diagnostics into one line per problem:
// failed fetch attempts, the index summary and index errors, then free-form errors.
func (d *Diagnostics) Messages() []string {
	if d.Empty() {
		return nil
	}

	var out []string
	for _, report := range d.Fetch {
		for _, a := range report.Attempts {
			if a.Error != "" {
				out = append(out, fmt.Sprintf("%s: %s: %s", report.Pipeline, a.Strategy, a.Error))
			}
		}
	}
	if d.Index != nil {
		out = append(out, fmt.Sprintf("indexed %d, skipped %d", d.Index.Added, d.Index.Skipped))
		out = append(out, d.Index.Errors...)
	}
	return append(out, d.Errors...)
}

// RunResult is the response of one orchestration run.
type RunResult struct {
	// Topic is the topic actually searched (refined when a refiner is enabled).
	Topic string `json:"topic"`

	// Videos are the fetched videos, most popular first.
	Videos []Resource `json:"videos"`

	// Papers are the fetched papers in provider order.
	Papers []Resource `json:"papers"`

	// Diagnostics is nil for a clean run.
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// SearchResponse is the response of a semantic search.
type SearchResponse struct {
	// Query is the query as received.
	Query string `json:"query"`

	// Results are ordered by increasing distance.
	Results []SearchHit `json:"results"`

	// Diagnostics is nil for a clean search.
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}
