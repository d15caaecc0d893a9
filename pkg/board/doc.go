// Package board turns vault accounts into displayable rows: the current code
// grouped for reading, the seconds left in its window, a progress fraction
// and an expiring flag for the last few seconds.
//
// Snapshot is a pure function of the accounts and the instant. Watch drives
// it from a ticker for live displays:
//
//	err := board.Watch(ctx, board.VaultSource(v, false, ""), func(entries []board.Entry) {
//		for _, e := range entries {
//			fmt.Printf("%-20s %s %2ds\n", e.Account.Label, e.Display(), e.Remaining)
//		}
//	})
//
// Rows whose secret cannot be decoded show Placeholder and carry the error
// in Entry.Err; they never hold a made-up code.
package board
