// Package preflight provides readiness checks for the external tools and
// filesystem paths that mediascan depends on.
//
// The "mediascan doctor" command runs RunAll and renders each Result; the
// scan command calls CheckFFprobe before a tree scan so a missing ffprobe
// binary is reported once instead of once per file.
//
// Checks that only matter for a particular backend report Optional results
// when that backend is not selected.
package preflight
