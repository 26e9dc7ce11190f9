// Package ui provides the small amount of styled CLI output jtop prints
// outside the dashboard: a spinner shown while tegrastats produces its
// first sample, and the colors and symbols it settles on.
//
// The dashboard itself renders through internal/dashboard; nothing here
// runs once the alternate screen is active.
package ui
