// channel_test.go - Message queue tests
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainPreservesFIFO(t *testing.T) {
	sender, receiver := NewQueue(16)

	for id := uint64(1); id <= 5; id++ {
		sender.Send(Message{Kind: FreeWhenFinished, FreeID: id})
	}

	var got []uint64
	receiver.Drain(func(m Message) {
		got = append(got, m.FreeID)
	})
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, got)
}

func TestDrainOnEmptyQueueReturnsImmediately(t *testing.T) {
	_, receiver := NewQueue(4)
	called := false
	receiver.Drain(func(Message) { called = true })
	assert.False(t, called)
}

func TestDrainEmptiesQueue(t *testing.T) {
	sender, receiver := NewQueue(8)
	sender.Send(Message{Kind: DisconnectAll, From: 1})

	n := 0
	receiver.Drain(func(Message) { n++ })
	require.Equal(t, 1, n)
	receiver.Drain(func(Message) { n++ })
	assert.Equal(t, 1, n)
}

// Multiple producers enqueue while a consumer drains; run under -race. Each
// producer's own messages must still arrive in its send order.
func TestConcurrentSenders(t *testing.T) {
	sender, receiver := NewQueue(DefaultCapacity)

	const producers = 4
	const perProducer = 100

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				sender.Send(Message{Kind: FreeWhenFinished, FreeID: uint64(p*perProducer + i)})
			}
		}(p)
	}
	wg.Wait()

	perSource := make(map[int][]uint64)
	receiver.Drain(func(m Message) {
		src := int(m.FreeID) / perProducer
		perSource[src] = append(perSource[src], m.FreeID)
	})

	for p := 0; p < producers; p++ {
		require.Len(t, perSource[p], perProducer)
		for i, id := range perSource[p] {
			assert.Equal(t, uint64(p*perProducer+i), id)
		}
	}
}
