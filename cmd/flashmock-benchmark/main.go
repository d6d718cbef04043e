// flashmock-benchmark - load generator for a running flashmock
//
// Usage:
//
//	flashmock-benchmark [flags]
//
// Flags:
//
//	-addr string     Server address (default "localhost:6379")
//	-clients int     Number of parallel clients (default 50)
//	-requests int    Total number of requests (default 100000)
//	-pipeline int    Commands per pipeline round trip (default 1)
//	-test string     Test type: set,get,mixed,incr,queue,zset (default "mixed")
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

func main() {
	addr := flag.String("addr", "localhost:6379", "Server address")
	clients := flag.Int("clients", 50, "Number of parallel clients")
	requests := flag.Int("requests", 100000, "Total number of requests")
	pipeline := flag.Int("pipeline", 1, "Commands per pipeline round trip")
	testType := flag.String("test", "mixed", "Test type: set,get,mixed,incr,queue,zset")
	flag.Parse()

	if *clients <= 0 || *pipeline <= 0 {
		fmt.Fprintln(os.Stderr, "clients and pipeline must be positive")
		os.Exit(2)
	}

	fmt.Println("====== flashmock Benchmark ======")
	fmt.Printf("Server: %s\n", *addr)
	fmt.Printf("Clients: %d\n", *clients)
	fmt.Printf("Requests: %d\n", *requests)
	fmt.Printf("Pipeline: %d\n", *pipeline)
	fmt.Printf("Test: %s\n", *testType)
	fmt.Println()

	rdb := redis.NewClient(&redis.Options{
		Addr:     *addr,
		Protocol: 2,
		PoolSize: *clients,
	})
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach %s: %v\n", *addr, err)
		os.Exit(1)
	}

	var completed, failed int64
	reqPerClient := *requests / *clients

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			for j := 0; j < reqPerClient; j += *pipeline {
				batch := *pipeline
				if rest := reqPerClient - j; rest < batch {
					batch = rest
				}
				cmds, err := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
					for k := 0; k < batch; k++ {
						queue(ctx, p, *testType, clientID, j+k)
					}
					return nil
				})
				for _, cmd := range cmds {
					if cmd.Err() != nil && cmd.Err() != redis.Nil {
						atomic.AddInt64(&failed, 1)
					} else {
						atomic.AddInt64(&completed, 1)
					}
				}
				if err != nil && len(cmds) == 0 {
					atomic.AddInt64(&failed, int64(batch))
				}
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("====== Results ======")
	fmt.Printf("Total time: %v\n", elapsed)
	fmt.Printf("Completed: %d\n", completed)
	fmt.Printf("Errors: %d\n", failed)
	if completed > 0 {
		fmt.Printf("Requests/sec: %.2f\n", float64(completed)/elapsed.Seconds())
		fmt.Printf("Avg latency: %.3f ms\n", float64(elapsed.Milliseconds())/float64(completed)*float64(*clients))
	}
}

// queue adds the j-th command of one client to the pipeline.
func queue(ctx context.Context, p redis.Pipeliner, testType string, clientID, j int) {
	key := fmt.Sprintf("key:%d:%d", clientID, j)
	value := fmt.Sprintf("value:%d:%d", clientID, j)

	switch testType {
	case "set":
		p.Set(ctx, key, value, 0)
	case "get":
		p.Get(ctx, key)
	case "mixed":
		if j%2 == 0 {
			p.Set(ctx, key, value, 0)
		} else {
			p.Get(ctx, key)
		}
	case "incr":
		p.Incr(ctx, fmt.Sprintf("counter:%d", clientID))
	case "queue":
		q := fmt.Sprintf("queue:%d", clientID)
		if j%2 == 0 {
			p.LPush(ctx, q, value)
		} else {
			p.RPop(ctx, q)
		}
	case "zset":
		p.ZIncrBy(ctx, fmt.Sprintf("board:%d", clientID%8), 1, fmt.Sprintf("player:%d", j%100))
	default:
		p.Ping(ctx)
	}
}
