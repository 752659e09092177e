// Package query turns free-text movie questions into structured intents and
// parameters. Parsing is purely lexical: keyword cascades for intent, a fixed
// genre vocabulary, and a handful of regular expressions for years, titles,
// and rating thresholds. No model calls, no I/O.
package query
