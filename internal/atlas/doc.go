// Package atlas allocates rectangular tiles on fixed-size pages.
//
// Each page is cut into horizontal rows, and each row into cells. A cell is a
// free horizontal segment with the height already consumed beneath it. New
// tiles go into the tightest existing cell first. If no cell fits, the atlas
// extends a row, then opens a new row, then asks the page factory for a new
// page. Placed tiles never move.
//
// An Atlas is not safe for concurrent use.
package atlas
