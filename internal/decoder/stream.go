package decoder

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/smallnest/ringbuffer"
	"github.com/srg/asterix/internal/groutine"
	"github.com/srg/asterix/internal/model"
	"github.com/srg/asterix/internal/registry"
)

// StreamOptions configures a StreamReader (§4.4 "Incremental API").
type StreamOptions struct {
	Options
	BufferCap int // ring buffer capacity in bytes; 0 uses DefaultStreamBufferCap
	Logger    *logrus.Logger
	OnBlock   func(*model.DataBlock) // invoked for each decoded block, on the pump goroutine
	OnError   func(error)            // invoked for each structural or item error, on the pump goroutine
}

// DefaultStreamBufferCap is the ring buffer capacity used when
// StreamOptions.BufferCap is left at zero.
const DefaultStreamBufferCap = 1 << 20

// StreamReader accepts bytes arriving from a live source (a TCP
// connection, a serial line, a recording played back in chunks) and
// decodes complete blocks as soon as enough bytes have arrived, holding
// any trailing partial block until the next Write (§4.4). It buffers the
// same way the teacher's PTY wrapper buffers bytes between async
// producer/consumer sides, but single-directional and without the PTY's
// poll/read syscalls: callers push bytes in with Write, this type pumps
// decode attempts out via callback.
type StreamReader struct {
	reg    *registry.Registry
	opts   StreamOptions
	logger *logrus.Logger
	buf    *ringbuffer.RingBuffer
	notify chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed uint32

	mu      sync.Mutex // guards pending, appended only from the pump goroutine
	pending []byte      // bytes read out of buf but not yet fully decoded

	BytesIn      uint64
	BlocksOut    uint64
	DroppedBytes uint64
}

// NewStreamReader starts a background pump goroutine that decodes
// complete blocks out of whatever bytes Write supplies.
func NewStreamReader(reg *registry.Registry, opts StreamOptions) *StreamReader {
	if opts.BufferCap <= 0 {
		opts.BufferCap = DefaultStreamBufferCap
	}
	logger := opts.Logger
	if logger == nil {
		logger = nonNilLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &StreamReader{
		reg:    reg,
		opts:   opts,
		logger: logger,
		buf:    ringbuffer.New(opts.BufferCap),
		notify: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Add(1)
	groutine.Go(ctx, "asterix-stream-pump", func(ctx context.Context) {
		defer s.wg.Done()
		s.pump()
	})
	return s
}

// Write enqueues data for decoding. Non-blocking: bytes of data that do not
// fit in the ring buffer are not buffered (already buffered bytes are
// kept), and the shortfall is added to DroppedBytes when the ring buffer
// reports it as full. The returned count is the number of bytes buffered.
func (s *StreamReader) Write(data []byte) (int, error) {
	if atomic.LoadUint32(&s.closed) == 1 {
		return 0, io.ErrClosedPipe
	}
	n, err := s.buf.Write(data)
	if err != nil && !errors.Is(err, ringbuffer.ErrIsFull) {
		return n, err
	}
	atomic.AddUint64(&s.BytesIn, uint64(n))
	if n < len(data) {
		atomic.AddUint64(&s.DroppedBytes, uint64(len(data)-n))
	}
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return n, nil
}

// Close stops the pump goroutine. Any undecoded trailing bytes are lost.
func (s *StreamReader) Close() error {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

// Pending returns the number of buffered, not-yet-decoded bytes (the tail
// of an incomplete block).
func (s *StreamReader) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *StreamReader) pump() {
	tmp := make([]byte, 4096)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.notify:
		}

		s.mu.Lock()
		for {
			n, err := s.buf.TryRead(tmp)
			if n > 0 {
				s.pending = append(s.pending, tmp[:n]...)
			}
			if err != nil && !errors.Is(err, ringbuffer.ErrIsEmpty) {
				s.logger.Warnf("asterix stream: ring buffer read error: %v", err)
			}
			if n == 0 {
				break
			}
		}

		if len(s.pending) == 0 {
			s.mu.Unlock()
			continue
		}

		result := ParseWithOffset(s.reg, s.pending, 0, 0, s.opts.Options, s.logger)

		consumed := result.BytesConsumed
		var deferredErrs []error
		if len(result.Errors) > 0 {
			if mbe, ok := result.Errors[len(result.Errors)-1].(*MalformedBlockError); ok {
				if mbe.Incomplete {
					// Not enough bytes for this block yet; keep its bytes
					// pending and wait for the next Write.
					result.Errors = result.Errors[:len(result.Errors)-1]
				} else if consumed == 0 {
					// Unrecoverable framing (e.g. LEN < 3): drop one byte
					// and resynchronize rather than stalling forever.
					consumed = 1
				}
			}
		}
		deferredErrs = result.Errors
		s.pending = append([]byte(nil), s.pending[consumed:]...)
		s.mu.Unlock()

		for _, err := range deferredErrs {
			if s.opts.OnError != nil {
				s.opts.OnError(err)
			}
		}
		for _, block := range result.Blocks {
			atomic.AddUint64(&s.BlocksOut, 1)
			if s.opts.OnBlock != nil {
				s.opts.OnBlock(block)
			}
		}
	}
}
