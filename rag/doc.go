// Package rag answers natural-language movie queries end to end: route and
// retrieve candidates through the search package, render the top hits into a
// generation context, and produce a conversational response. The generation
// backend is optional; without it, or on any generation failure, a
// deterministic fallback answer is built from the retrieved movies.
package rag
