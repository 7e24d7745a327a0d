// Package testutil provides shared helpers for tests that run the analysis
// end to end on HCL program descriptions.
package testutil
