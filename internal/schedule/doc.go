// Package schedule turns the free-text meeting fields of a catalog row into a
// canonical domain.TimeWindow.
//
// Parsing never fails. Text that cannot be understood degrades to an
// unscheduled window, and the returned Diagnostics say what was dropped so
// callers can log it.
package schedule
