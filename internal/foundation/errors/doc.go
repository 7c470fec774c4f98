// Package errors provides the classified error primitives used across apidocgen.
//
// A ClassifiedError carries a category (config, bundle, render, toolchain, ...),
// a severity and a retry strategy alongside the message and wrapped cause. The
// CLI adapter maps categories to process exit codes; bundle and render failures
// propagate the exit status of the failed documentation tool when one is known.
//
//	err := errors.BundleError("bundle openapi document").
//		WithContext("source", url).
//		WithCause(runErr).
//		Build()
package errors
