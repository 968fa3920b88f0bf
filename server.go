package redlock

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// op identifies which of the three atomic scripts a Server.run call executes.
type op int

const (
	opLock op = iota
	opUnlock
	opExtend
)

// outcome is the per-server result of running one script.
type outcome int

const (
	outcomeApplied outcome = iota
	outcomeNotApplied
	outcomeTransportError
)

// Server is the thin per-server operation surface the coordinator fans
// requests out to. It reports only whether the script applied, did
// not apply, or could not be run at all — the coordinator relies on
// that three-way distinction to tell "lost the race" apart from
// "couldn't reach this server."
//
// The wire protocol, connection pooling, and EVALSHA/EVAL script
// caching are the concern of the client passed to NewServer, not of
// this interface.
type Server interface {
	// run executes one of the three fixed atomic programs against key
	// with value and, for LOCK/EXTEND, ttlMillis. It never returns a Go
	// error for a reachable-but-declined script reply; errors are
	// reserved for transport failures.
	run(ctx context.Context, o op, key, value string, ttlMillis int64) (outcome, error)

	// String identifies the server for logging.
	String() string
}

// redisServer adapts a go-redis client to the Server interface.
type redisServer struct {
	client  redis.UniversalClient
	name    string
	scripts *scriptSet
}

// NewServer wraps a go-redis client as a Redlock Server. name is used
// only for logging and diagnostics (e.g. the client's configured
// address); with an empty string, String reports "redis-server".
func NewServer(client redis.UniversalClient, name string) (Server, error) {
	if client == nil {
		return nil, ErrNilServer
	}
	return &redisServer{
		client:  client,
		name:    name,
		scripts: getScripts(),
	}, nil
}

func (s *redisServer) String() string {
	if s.name != "" {
		return s.name
	}
	return "redis-server"
}

func (s *redisServer) run(ctx context.Context, o op, key, value string, ttlMillis int64) (outcome, error) {
	var script *redis.Script
	var args []any

	switch o {
	case opLock:
		script = s.scripts.lock
		args = []any{value, ttlMillis}
	case opUnlock:
		script = s.scripts.unlock
		args = []any{value}
	case opExtend:
		script = s.scripts.extend
		args = []any{value, ttlMillis}
	default:
		return outcomeTransportError, errors.New("redlock: unknown script operation")
	}

	res, err := script.Run(ctx, s.client, []string{key}, args...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// LOCK's SET NX replies (nil) when the key is already held.
			return outcomeNotApplied, nil
		}
		return outcomeTransportError, &transportError{server: s.String(), cause: err}
	}

	return replyOutcome(o, res), nil
}

// replyOutcome interprets a successful script reply per the wire
// conventions in SPEC_FULL.md: LOCK replies "OK"/nil, UNLOCK/EXTEND
// reply integer 1/0.
func replyOutcome(o op, res any) outcome {
	switch o {
	case opLock:
		if s, ok := res.(string); ok && s == "OK" {
			return outcomeApplied
		}
		return outcomeNotApplied
	default: // opUnlock, opExtend
		if n, ok := res.(int64); ok && n == 1 {
			return outcomeApplied
		}
		return outcomeNotApplied
	}
}

var _ Server = (*redisServer)(nil)
