// Package youtube provides the video provider backed by the YouTube Data API v3.
//
// A search.list call finds candidate video ids and a videos.list call
// fetches snippet, statistics and contentDetails for them. Records are
// returned in the API's own JSON shape for the video normaliser.
package youtube
