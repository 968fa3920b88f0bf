package redlock

import (
	_ "embed"
	"sync"

	"github.com/redis/go-redis/v9"
)

// The three Lua programs are process-wide immutable data: they never
// vary per Coordinator, so they are embedded once at build time and
// compiled into redis.Script singletons lazily, on first use.
var (
	//go:embed lua/lock.lua
	lockScriptSource string

	//go:embed lua/unlock.lua
	unlockScriptSource string

	//go:embed lua/extend.lua
	extendScriptSource string
)

// scriptSet holds the three atomic programs used by the coordinator.
// redis.Script itself caches the script's SHA1 and transparently
// retries with EVAL on a NOSCRIPT reply — the EVALSHA/SCRIPT LOAD
// bookkeeping is entirely the underlying client's concern.
type scriptSet struct {
	lock   *redis.Script
	unlock *redis.Script
	extend *redis.Script
}

var (
	globalScripts     *scriptSet
	globalScriptsOnce sync.Once
)

func getScripts() *scriptSet {
	globalScriptsOnce.Do(func() {
		globalScripts = &scriptSet{
			lock:   redis.NewScript(lockScriptSource),
			unlock: redis.NewScript(unlockScriptSource),
			extend: redis.NewScript(extendScriptSource),
		}
	})
	return globalScripts
}
