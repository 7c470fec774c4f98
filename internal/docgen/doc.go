// Package docgen orchestrates a documentation build: it bundles the OpenAPI
// document served by the running service into the output directory and renders
// it into a standalone HTML page, strictly in that order.
//
// A run moves through pending, bundling and rendering to done. Any failure
// moves it to error from the step that was executing; later steps never run.
// Observers see every transition and step completion, which is how logging,
// metrics and notifications hook into a run without the orchestrator knowing
// about them.
package docgen
