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

// Package posix implements backend.Backend for POSIX terminals: /dev/tty
// (or stdin when /dev/tty is unavailable) in raw mode via termios,
// SIGWINCH delivered through the process-global self-pipe registry, and
// poll(2)-based input waiting.
package posix

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/gdamore/termgrid/backend"
	"github.com/gdamore/termgrid/input"
)

// Backend is the POSIX implementation of backend.Backend.
type Backend struct {
	file *os.File
	fd   int
	out  *bufio.Writer

	saved   unix.Termios
	started bool

	opts backend.Options
	caps backend.Capabilities
	size backend.Size

	reader *input.Reader

	sigwinchSlot int
	pipeR, pipeW int
}

// New opens the terminal device. It prefers /dev/tty so the backend
// works even when stdin/stdout are redirected, and falls back to stdin
// only when /dev/tty cannot be opened and stdin is itself a TTY.
func New() (*Backend, error) {
	b := &Backend{sigwinchSlot: -1, pipeR: -1, pipeW: -1}

	if f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		b.file = f
		b.fd = int(f.Fd())
		return b, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, backend.ErrNotATerminal
	}
	b.file = os.Stdin
	b.fd = int(os.Stdin.Fd())
	return b, nil
}

// Init implements backend.Backend.
func (b *Backend) Init(opts backend.Options) (backend.Capabilities, backend.Size, error) {
	b.opts = opts

	var cur unix.Termios
	if err := termios.Tcgetattr(uintptr(b.fd), &cur); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrNotATerminal, err)
	}
	b.saved = cur

	raw := cur
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0

	if err := termiosSet(b.fd, &raw); err != nil {
		return backend.Capabilities{}, backend.Size{}, fmt.Errorf("%w: %v", backend.ErrSetModeFailed, err)
	}
	b.started = true

	b.caps = backend.ProbeCapabilities()
	if sz, err := b.queryWinSize(); err == nil {
		b.size = sz
	} else {
		b.size = backend.Size{Width: 80, Height: 24}
	}

	b.out = bufio.NewWriter(b.file)
	if _, err := b.out.WriteString(backend.EnterSequence(opts, b.caps)); err != nil {
		return b.caps, b.size, fmt.Errorf("%w: %v", backend.ErrWriteFailed, err)
	}
	if err := b.out.Flush(); err != nil {
		return b.caps, b.size, fmt.Errorf("%w: %v", backend.ErrWriteFailed, err)
	}

	if opts.ProbeDeviceAttributes {
		b.probeDeviceAttributes(opts)
	}

	b.reader = input.NewReader(b, nil, opts.EscapeTimeout)

	if opts.InstallSIGWINCH {
		if err := b.setupResizePipe(); err != nil {
			return b.caps, b.size, err
		}
	}

	return b.caps, b.size, nil
}

func termiosSet(fd int, t *unix.Termios) error {
	return termios.Tcsetattr(uintptr(fd), termios.TCSANOW, t)
}

// setupResizePipe creates the non-blocking, close-on-exec self-pipe and
// registers its write end with the process-global SIGWINCH registry.
func (b *Backend) setupResizePipe() error {
	fds, err := unixPipe2()
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrPipeSetupFailed, err)
	}
	b.pipeR, b.pipeW = fds[0], fds[1]

	slot, err := registerSIGWINCH(b.pipeW)
	if err != nil {
		unix.Close(b.pipeR)
		unix.Close(b.pipeW)
		b.pipeR, b.pipeW = -1, -1
		return err
	}
	b.sigwinchSlot = slot
	return nil
}

// Deinit implements backend.Backend. Reverses every escape sequence
// Init emitted, restores termios, and releases owned resources — each
// step runs even if an earlier one failed, so a partial failure never
// leaves the terminal raw.
func (b *Backend) Deinit() error {
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if b.out != nil && b.file != nil {
		_, err := b.out.WriteString(backend.LeaveSequence(b.opts, b.caps))
		note(err)
		note(b.out.Flush())
	}

	if b.started {
		note(termiosSet(b.fd, &b.saved))
		b.started = false
	}

	if b.sigwinchSlot >= 0 {
		unregisterSIGWINCH(b.sigwinchSlot)
		b.sigwinchSlot = -1
	}
	if b.pipeR >= 0 {
		unix.Close(b.pipeR)
		b.pipeR = -1
	}
	if b.pipeW >= 0 {
		unix.Close(b.pipeW)
		b.pipeW = -1
	}

	if b.file != nil && b.file != os.Stdin {
		note(b.file.Close())
	}
	b.file = nil // a repeated Deinit neither writes nor closes again

	return firstErr
}

// queryWinSize reads the current window size from TIOCGWINSZ, treating
// a zero dimension as the classic 80x24.
func (b *Backend) queryWinSize() (backend.Size, error) {
	ws, err := unix.IoctlGetWinsize(b.fd, unix.TIOCGWINSZ)
	if err != nil {
		return backend.Size{}, err
	}
	w, h := int(ws.Col), int(ws.Row)
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return backend.Size{Width: w, Height: h, PixelWidth: int(ws.Xpixel), PixelHeight: int(ws.Ypixel)}, nil
}

// probeDeviceAttributes sends a Primary Device Attributes query and
// waits up to opts.DeviceAttributesTimeout for a reply, setting
// b.caps.Sixel on success. Best-effort: a terminal that never answers
// just leaves Sixel false, exactly as the env-var-only default probe
// would have reported it.
func (b *Backend) probeDeviceAttributes(opts backend.Options) {
	if _, err := b.out.WriteString(backend.DeviceAttributesRequest); err != nil {
		return
	}
	if err := b.out.Flush(); err != nil {
		return
	}

	timeout := opts.DeviceAttributesTimeout
	if timeout <= 0 {
		timeout = backend.DefaultDeviceAttributesTimeout
	}

	var reply []byte
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		data, err := b.rawReadTimeout(time.Until(deadline))
		if err != nil || len(data) == 0 {
			break
		}
		reply = append(reply, data...)
		if _, ok := backend.ParseDeviceAttributesResponse(reply); ok {
			break
		}
	}
	if sixel, ok := backend.ParseDeviceAttributesResponse(reply); ok {
		b.caps.Sixel = sixel
	}
}

// rawReadTimeout polls and reads b.fd directly, bypassing the resize
// self-pipe — used only during the brief device-attributes handshake
// window before b.reader exists.
func (b *Backend) rawReadTimeout(d time.Duration) ([]byte, error) {
	pfd := []unix.PollFd{{Fd: int32(b.fd), Events: unix.POLLIN}}
	ms := int(d / time.Millisecond)
	if d > 0 && ms == 0 {
		ms = 1
	}
	n, err := unix.Poll(pfd, ms)
	if err != nil || n == 0 {
		return nil, err
	}
	buf := make([]byte, 256)
	n2, err := unix.Read(b.fd, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n2], nil
}

// Size implements backend.Backend.
func (b *Backend) Size() backend.Size { return b.size }

// WriteBytes implements backend.Backend.
func (b *Backend) WriteBytes(p []byte) (int, error) {
	n, err := b.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", backend.ErrWriteFailed, err)
	}
	if n < len(p) {
		return n, backend.ErrPartialWrite
	}
	return n, nil
}

// FlushOutput implements backend.Backend.
func (b *Backend) FlushOutput() error {
	if err := b.out.Flush(); err != nil {
		return fmt.Errorf("%w: %v", backend.ErrWriteFailed, err)
	}
	return nil
}

// checkResizePending drains the resize pipe's read end non-blockingly;
// it reports whether any bytes were drained. Multiple pending SIGWINCH
// notifications coalesce into one drain.
func (b *Backend) checkResizePending() bool {
	if b.pipeR < 0 {
		return false
	}
	var buf [64]byte
	drained := false
	for {
		n, err := unix.Read(b.pipeR, buf[:])
		if n > 0 {
			drained = true
		}
		if err != nil || n <= 0 {
			break
		}
	}
	return drained
}

// PollEvent implements backend.Backend: drain pending resize first
// (returning it before any subsequent input is dequeued), then delegate
// to the input.Reader for decode + escape-timeout handling, then check
// once more in case a resize arrived while waiting on input.
func (b *Backend) PollEvent(timeout time.Duration) (input.Event, error) {
	if b.checkResizePending() {
		return b.refreshResize()
	}

	ev, err := b.reader.ReadEvent(timeout)
	if err != nil {
		if errors.Is(err, input.ErrPasteOverflow) {
			return nil, backend.PasteOverflow(err)
		}
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	if ev != nil {
		return ev, nil
	}

	if b.checkResizePending() {
		return b.refreshResize()
	}
	return nil, nil
}

func (b *Backend) refreshResize() (input.Event, error) {
	sz, err := b.queryWinSize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	b.size = sz
	return input.Resize{Width: sz.Width, Height: sz.Height}, nil
}

// PeekEvent implements backend.Backend. This backend keeps no
// lookahead buffer beyond the decoder's own internal queue, so Peek is
// a zero-timeout Poll.
func (b *Backend) PeekEvent() (input.Event, error) {
	return b.PollEvent(0)
}

// ReadTimeout implements input.ByteSource by polling both the tty fd and
// the resize self-pipe together. A ready resize pipe takes priority and
// yields an empty read (prompting the caller's next checkResizePending
// to observe it) rather than racing a tty read in the same pass.
func (b *Backend) ReadTimeout(d time.Duration) ([]byte, error) {
	pfds := []unix.PollFd{{Fd: int32(b.fd), Events: unix.POLLIN}}
	if b.pipeR >= 0 {
		pfds = append(pfds, unix.PollFd{Fd: int32(b.pipeR), Events: unix.POLLIN})
	}

	ms := int(d / time.Millisecond)
	if d > 0 && ms == 0 {
		ms = 1
	}
	n, err := unix.Poll(pfds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	if n == 0 {
		return nil, nil
	}

	if len(pfds) > 1 && pfds[1].Revents&unix.POLLIN != 0 {
		return nil, nil
	}

	if pfds[0].Revents&unix.POLLIN == 0 {
		return nil, nil
	}

	buf := make([]byte, 4096)
	n2, err := unix.Read(b.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", backend.ErrReadFailed, err)
	}
	return buf[:n2], nil
}

// unixPipe2 creates a non-blocking, close-on-exec pipe pair.
func unixPipe2() ([2]int, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fds, err
	}
	return fds, nil
}

var _ backend.Backend = (*Backend)(nil)
