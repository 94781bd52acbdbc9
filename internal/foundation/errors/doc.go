// Package errors provides the classified error primitives used across docsite.
//
// Every failure that crosses a component boundary is a ClassifiedError carrying
// a category (not_found, retrieval, parse, ...), a severity, a retry strategy and
// a structured context map. Callers branch on the category rather than on
// concrete error types, and the HTTP and CLI adapters translate categories into
// status codes and exit codes.
//
// Example usage:
//
//	err := errors.RetrievalError("fetch failed").
//		WithContext("address", addr).
//		WithContext("status", 503).
//		WithCause(cause).
//		Build()
//
//	if errors.HasCategory(err, errors.CategoryRetrieval) {
//		// degrade
//	}
package errors
