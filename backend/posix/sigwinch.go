//go:build !windows

// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package posix

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/termgrid/backend"
)

// The process-global self-pipe registry: a fixed-capacity table of
// write-end file descriptors, one per live backend, notified from a
// single shared SIGWINCH dispatcher. Slots are atomic so the dispatcher
// never takes a lock.
//
// Go's signal delivery already marshals the OS signal onto a
// runtime-managed goroutine before any Go code runs (unlike a C
// sigaction handler, which runs on the signal stack with only
// async-signal-safe calls available), so the dispatcher loop here is an
// ordinary goroutine. The discipline still holds: the dispatcher does
// only an atomic load plus a best-effort, non-blocking write per slot —
// no allocation, no formatting.
const sigwinchSlots = 16

var (
	sigwinchFDs  [sigwinchSlots]atomic.Int64 // -1 = empty
	sigwinchMu   sync.Mutex
	sigwinchRefs int
	sigwinchCh   chan os.Signal
)

func init() {
	for i := range sigwinchFDs {
		sigwinchFDs[i].Store(-1)
	}
}

// registerSIGWINCH installs fd (the write end of a self-pipe) into the
// registry and ensures the shared dispatcher goroutine is running,
// installing the SIGWINCH handler on the first caller (refcount 0->1).
// Returns backend.ErrTooManyBackends if the fixed-capacity table is full.
func registerSIGWINCH(fd int) (slot int, err error) {
	sigwinchMu.Lock()
	defer sigwinchMu.Unlock()

	slot = -1
	for i := range sigwinchFDs {
		if sigwinchFDs[i].CompareAndSwap(-1, int64(fd)) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return -1, backend.ErrTooManyBackends
	}

	sigwinchRefs++
	if sigwinchRefs == 1 {
		sigwinchCh = make(chan os.Signal, 16)
		signal.Notify(sigwinchCh, syscall.SIGWINCH)
		go sigwinchDispatch(sigwinchCh)
	}
	return slot, nil
}

// unregisterSIGWINCH removes the registration made by registerSIGWINCH
// and tears down the handler when the last backend deregisters
// (refcount 1->0).
func unregisterSIGWINCH(slot int) {
	sigwinchMu.Lock()
	defer sigwinchMu.Unlock()

	if slot < 0 || slot >= sigwinchSlots {
		return
	}
	sigwinchFDs[slot].Store(-1)

	sigwinchRefs--
	if sigwinchRefs == 0 && sigwinchCh != nil {
		signal.Stop(sigwinchCh)
		close(sigwinchCh)
		sigwinchCh = nil
	}
}

func sigwinchDispatch(ch chan os.Signal) {
	for range ch {
		var b [1]byte
		for i := range sigwinchFDs {
			fd := int(sigwinchFDs[i].Load())
			if fd < 0 {
				continue
			}
			_, _ = syscall.Write(fd, b[:])
		}
	}
}
