// Package redlock implements the Redlock distributed-locking algorithm
// across N independent Redis-compatible servers.
//
// # Design
//
// A [Coordinator] holds an immutable set of [Server] adapters plus the
// retry/backoff/drift parameters from the [Option] values passed to
// [New]. Acquiring a lease fans
// out a SET-if-absent script to every server, tallies the applied
// replies, and only returns a [Lease] once a quorum (⌊N/2⌋+1) has
// agreed and the remaining validity window (after subtracting clock
// drift) is still positive. Extend and Release follow the same
// quorum-request shape against an existing Lease's fencing value.
//
// # What this package does NOT do
//
// The Redis wire protocol, connection pooling, and EVAL/EVALSHA script
// caching are left to the underlying [github.com/redis/go-redis/v9]
// client passed into [NewServer]; this package only ever asks it to
// "run this script against this server." Likewise there is no fencing
// beyond the random lease value, no automatic renewal, and no
// persistence of lock state across process restarts — see SPEC_FULL.md
// for the full rationale.
//
// # Usage
//
//	s1, err := redlock.NewServer(client1, "redis-1")
//	if err != nil {
//		return err
//	}
//	s2, err := redlock.NewServer(client2, "redis-2")
//	if err != nil {
//		return err
//	}
//	coord, err := redlock.New([]redlock.Server{s1, s2})
//	if err != nil {
//		return err
//	}
//	lease, err := coord.Acquire(ctx, "orders:42", 5*time.Second)
//	if err != nil {
//		return err
//	}
//	defer lease.Release(ctx)
package redlock
