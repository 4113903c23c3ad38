package utils

import (
	"fmt"
	"runtime"
)

// GetMemUsage summarizes the heap of the process in MiB
func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB Sys = %v MiB HeapObjects = %v NumGC = %v",
		bToMb(m.Alloc), bToMb(m.Sys), m.HeapObjects, m.NumGC)
}
