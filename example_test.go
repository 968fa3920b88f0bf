package redlock_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/redlock"
)

// Example demonstrates the basic acquire/release flow against a single
// Redis-compatible server. Production callers would pass several
// independent servers to New for real Redlock quorum guarantees.
func Example() {
	mr, err := miniredis.Run()
	if err != nil {
		log.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	server, err := redlock.NewServer(client, mr.Addr())
	if err != nil {
		log.Fatal(err)
	}

	coord, err := redlock.New([]redlock.Server{server})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lease, err := coord.Acquire(ctx, "my-resource", 2*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("lease acquired")

	// Critical section would run here.

	if err := lease.Release(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("lease released")

	// Output:
	// lease acquired
	// lease released
}

// Example_extend shows refreshing a lease's TTL partway through a
// long-running task.
func Example_extend() {
	mr, err := miniredis.Run()
	if err != nil {
		log.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	server, err := redlock.NewServer(client, mr.Addr())
	if err != nil {
		log.Fatal(err)
	}

	coord, err := redlock.New([]redlock.Server{server})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	lease, err := coord.Acquire(ctx, "long-task", time.Second)
	if err != nil {
		log.Fatal(err)
	}

	extended, err := lease.Extend(ctx, 10*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(extended.Value() == lease.Value())

	_ = extended.Release(ctx)

	// Output:
	// true
}
