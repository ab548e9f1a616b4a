// Package connectors holds the provider implementations. Each subpackage
// knows how to query one external catalog (YouTube, Semantic Scholar,
// arXiv) and returns provider-native records for the normalisers.
//
// Connectors are assembled into fallback strategies at startup.
package connectors
