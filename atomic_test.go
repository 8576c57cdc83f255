package twitch

import (
	"sync"
	"testing"
)

func TestTAtomBoolDefaultValue(t *testing.T) {
	var v tAtomBool
	assertFalse(t, v.get(), "Default value should be false")
}

func TestTAtomBoolSet(t *testing.T) {
	var v tAtomBool
	assertFalse(t, v.get(), "Initial value should be false")
	v.set(true)
	assertTrue(t, v.get(), "Should be true after being set to true")
	v.set(false)
	assertFalse(t, v.get(), "Should be false after being set to true")
}

func TestTAtomInt32ConcurrentIncrement(t *testing.T) {
	var v tAtomInt32

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v.increment()
			}
		}()
	}
	wg.Wait()

	assertInt32sEqual(t, 1000, v.get())
}
