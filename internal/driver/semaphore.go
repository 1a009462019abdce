// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package driver

import "context"

// semaphore bounds the number of files parsed at once.
type semaphore struct {
	slots chan struct{}
}

func newSemaphore(v int) *semaphore {
	return &semaphore{
		slots: make(chan struct{}, v),
	}
}

// Acquire waits for a free slot or for ctx to end.
func (self *semaphore) Acquire(ctx context.Context) error {
	select {
	case self.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (self *semaphore) Release() {
	<-self.slots
}
