package stream

import (
	"context"
	"sync"
)

// Slice sends each element of in, stopping early if ctx is done.
func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// Transform applies transformer to every element of in on workers goroutines.
// Results arrive in completion order.
func Transform[I any, O any](ctx context.Context, workers int, transformer func(I) O, in <-chan I) <-chan O {
	if workers < 1 {
		workers = 1
	}
	out := make(chan O)
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for element := range in {
				select {
				case <-ctx.Done():
					return
				case out <- transformer(element):
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Collect drains in.
func Collect[T any](in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		out = append(out, element)
	}
	return out
}
