package sinks

import (
	"encoding/binary"
	"hash/fnv"
)

// partitionedQueue routes messages with the same key to the same buffered
// channel so one worker sees them in publish order.
type partitionedQueue[T any] struct {
	partitions []chan T
}

const (
	defaultNumPartitions = 4
	defaultBuffer        = 256
)

func newPartitionedQueue[T any](numPartitions, buffer int) *partitionedQueue[T] {
	if numPartitions < 1 {
		numPartitions = defaultNumPartitions
	}
	if buffer < 1 {
		buffer = defaultBuffer
	}
	channels := make([]chan T, numPartitions)
	for i := range channels {
		channels[i] = make(chan T, buffer)
	}
	return &partitionedQueue[T]{partitions: channels}
}

func (queue *partitionedQueue[T]) partitionCount() int { return len(queue.partitions) }

// tryPublish enqueues msg without blocking and reports whether it was accepted.
func (queue *partitionedQueue[T]) tryPublish(partitionKey string, msg T) bool {
	idx := partitionIndex(partitionKey, len(queue.partitions))
	select {
	case queue.partitions[idx] <- msg:
		return true
	default:
		return false
	}
}

func partitionIndex(key string, n int) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	sum := hash.Sum(nil)
	v := binary.BigEndian.Uint32(sum)
	return int(v % uint32(n))
}
