package rslock_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/legas7/rslock"
)

// Example demonstrates acquiring, extending, and releasing a lock across
// a three-store Redlock quorum.
func Example() {
	var servers [3]*miniredis.Miniredis
	clients := make([]redis.UniversalClient, 3)
	for i := range servers {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatal(err)
		}
		defer mr.Close()
		servers[i] = mr
		clients[i] = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	mgr, err := rslock.New(clients)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	lock, err := mgr.AcquireOnce(ctx, "my-resource", 5*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("acquired")

	mgr.Release(ctx, lock)
	fmt.Println("released")

	// Output:
	// acquired
	// released
}
