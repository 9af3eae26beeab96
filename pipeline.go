package quill

import "sync"

const DEFAULT_WORKERS = 1

// StepAll steps independent simulations over a fixed number of workers.
// Sinks, listeners and diagnostics are called from the worker goroutines.
func StepAll(sims []*Simulation, dt float64, workers int) {
	task(max(DEFAULT_WORKERS, workers), sims, func(sim *Simulation) {
		sim.Step(dt)
	})
}

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
