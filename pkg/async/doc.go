// Package async provides a small generic future type and an ordered,
// bounded-concurrency Map.
//
// The board uses Map to compute every account's code for a tick in parallel:
//
//	results := async.Map(ctx, accounts, 0, func(ctx context.Context, a vault.Account) (Entry, error) {
//		return entryFor(a, now), nil
//	})
//
// Results come back in input order. Each item carries its own error, so one
// broken secret never hides the codes of the others.
package async
