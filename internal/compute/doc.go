// Package compute provides the pair force backends.
//
// Two variants of the same all-pairs force summation are available:
//
//   - CPU: always compiled; serial for small systems, chunked across
//     goroutines otherwise
//   - CUDA: compiled with the cuda build tag; evaluates the Lymburn
//     repulsion on the device and falls back to the CPU when no device is
//     present
//
// # Usage
//
//	backend, err := compute.ByName("auto")
//	if err != nil {
//		return err
//	}
//	defer backend.Cleanup()
//	res, err := backend.PairForces(ctx, sys, tbl, pot.Constructor())
//	...
//	compute.Release(res)
//
// Build with CUDA support:
//
//	./build_cuda.sh
//	go build -tags cuda ./...
package compute
