// Package listing builds the paginated transcription list with the demo
// record pinned to the top of the first page.
//
// Page 1 holds the demo plus limit-1 of the user's records. Later pages hold
// limit records each, shifted back by one so the slot the demo takes on page
// 1 does not push a user record off the list. Totals count the demo once.
package listing
