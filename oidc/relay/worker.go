package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-uuid"
)

// ErrStoreClosed is returned by a WorkerStore after Close.
var ErrStoreClosed = errors.New("relay: store is closed")

// WorkerStore is a Store whose values live in a separate goroutine,
// reachable only by message passing, the analogue of keeping tokens in an
// isolated worker where the host context cannot read them directly. Every
// request carries a generated ID and each reply echoes it back, so
// concurrent callers always receive the reply to their own request.
type WorkerStore struct {
	*Store
	kv *workerKV
}

// NewWorkerStore creates a WorkerStore and starts its worker. Close must
// be called to stop it.
func NewWorkerStore(clientID string) (*WorkerStore, error) {
	kv := newWorkerKV()
	return &WorkerStore{
		Store: NewStore(clientID, kv),
		kv:    kv,
	}, nil
}

// Close stops the worker. Calls after Close fail with ErrStoreClosed.
func (w *WorkerStore) Close() {
	w.kv.close()
}

type workerOp string

const (
	opSet    workerOp = "set"
	opGet    workerOp = "get"
	opDelete workerOp = "delete"
)

type workerRequest struct {
	id    string
	op    workerOp
	key   string
	value string
}

type workerReply struct {
	id    string
	value string
}

type workerKV struct {
	requests chan workerRequest
	replies  chan workerReply
	done     chan struct{}

	mu      sync.Mutex
	pending map[string]chan workerReply
	closed  bool
}

func newWorkerKV() *workerKV {
	w := &workerKV{
		requests: make(chan workerRequest),
		replies:  make(chan workerReply),
		done:     make(chan struct{}),
		pending:  map[string]chan workerReply{},
	}
	go w.work()
	go w.dispatch()
	return w
}

// work owns the values map; nothing outside this goroutine touches it.
func (w *workerKV) work() {
	values := map[string]string{}
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			reply := workerReply{id: req.id}
			switch req.op {
			case opSet:
				values[req.key] = req.value
			case opGet:
				reply.value = values[req.key]
			case opDelete:
				delete(values, req.key)
			}
			select {
			case w.replies <- reply:
			case <-w.done:
				return
			}
		}
	}
}

// dispatch routes each reply to the caller whose request ID it echoes.
func (w *workerKV) dispatch() {
	for {
		select {
		case <-w.done:
			return
		case reply := <-w.replies:
			w.mu.Lock()
			ch := w.pending[reply.id]
			delete(w.pending, reply.id)
			w.mu.Unlock()
			if ch != nil {
				ch <- reply
			}
		}
	}
}

func (w *workerKV) call(ctx context.Context, op workerOp, key, value string) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("unable to generate request id: %w", err)
	}
	ch := make(chan workerReply, 1)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrStoreClosed
	}
	w.pending[id] = ch
	w.mu.Unlock()

	select {
	case w.requests <- workerRequest{id: id, op: op, key: key, value: value}:
	case <-ctx.Done():
		w.abandon(id)
		return "", ctx.Err()
	case <-w.done:
		w.abandon(id)
		return "", ErrStoreClosed
	}

	select {
	case reply := <-ch:
		return reply.value, nil
	case <-ctx.Done():
		w.abandon(id)
		return "", ctx.Err()
	case <-w.done:
		w.abandon(id)
		return "", ErrStoreClosed
	}
}

func (w *workerKV) abandon(id string) {
	w.mu.Lock()
	delete(w.pending, id)
	w.mu.Unlock()
}

func (w *workerKV) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
}

func (w *workerKV) set(ctx context.Context, key, value string) error {
	_, err := w.call(ctx, opSet, key, value)
	return err
}

func (w *workerKV) get(ctx context.Context, key string) (string, error) {
	return w.call(ctx, opGet, key, "")
}

func (w *workerKV) delete(ctx context.Context, key string) error {
	_, err := w.call(ctx, opDelete, key, "")
	return err
}
