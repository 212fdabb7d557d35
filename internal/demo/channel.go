package demo

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Op is the operation a channel message asks the consumer to apply.
type Op int

const (
	OpIncrement Op = iota
	OpDecrement
)

// Message is one unit of work sent from a producer to the mailbox consumer.
type Message struct {
	Producer string
	Op       Op
	Amount   int
}

// Mailbox wraps a bounded channel with a blocking Send and a non-blocking
// TrySend. With a full buffer, Send blocks the producer until the consumer
// catches up, while TrySend reports failure immediately.
type Mailbox struct {
	ch chan Message
}

// NewMailbox creates a mailbox holding at most buffer in-flight messages.
func NewMailbox(buffer int) *Mailbox {
	return &Mailbox{ch: make(chan Message, buffer)}
}

// Send delivers msg, blocking while the buffer is full.
func (m *Mailbox) Send(msg Message) {
	m.ch <- msg
}

// TrySend delivers msg only if buffer space is available and reports whether
// the message was accepted.
func (m *Mailbox) TrySend(msg Message) bool {
	select {
	case m.ch <- msg:
		return true
	default:
		return false
	}
}

// Close signals that no further messages will be sent. All producers must be
// done before Close; the consumer drains what remains.
func (m *Mailbox) Close() {
	close(m.ch)
}

// Drain consumes messages until the mailbox is closed, applying each
// operation to a running total and reporting every message to w.
func (m *Mailbox) Drain(w io.Writer) int {
	total := 0
	for msg := range m.ch {
		switch msg.Op {
		case OpIncrement:
			fmt.Fprintf(w, "[%s] incremented %d\n", msg.Producer, msg.Amount)
			total += msg.Amount
		case OpDecrement:
			fmt.Fprintf(w, "[%s] decremented %d\n", msg.Producer, msg.Amount)
			total -= msg.Amount
		}
	}
	return total
}

// Channel demonstrates a bounded multi-producer channel: two producer
// goroutines plus the caller share one mailbox, one producer probes the full
// buffer with TrySend, and the consumer drains everything in FIFO order
// after all producers finish.
func Channel(_ context.Context, w io.Writer) error {
	mailbox := NewMailbox(2)

	// Sent before the producers start, while the buffer is known to be
	// empty; everything after this point may block until the drain loop
	// below starts consuming.
	mailbox.Send(Message{Producer: "main", Op: OpIncrement, Amount: 100})

	var producers sync.WaitGroup
	producers.Add(2)

	go func() {
		defer producers.Done()
		mailbox.Send(Message{Producer: "producer-1", Op: OpIncrement, Amount: 20})
		mailbox.Send(Message{Producer: "producer-1", Op: OpDecrement, Amount: 1})
		mailbox.Send(Message{Producer: "producer-1", Op: OpIncrement, Amount: 2})
		// The buffer may be full at this point; unlike Send this does not block.
		if !mailbox.TrySend(Message{Producer: "producer-1", Op: OpIncrement, Amount: 1}) {
			fmt.Fprintln(w, "[producer-1] buffer full, message rejected")
		}
	}()

	go func() {
		defer producers.Done()
		mailbox.Send(Message{Producer: "producer-2", Op: OpIncrement, Amount: 2})
	}()

	// The consumer loop ends only when the channel closes, and closing is
	// only safe once every producer has finished sending.
	go func() {
		producers.Wait()
		mailbox.Close()
	}()

	total := mailbox.Drain(w)
	fmt.Fprintf(w, "total: %d\n", total)
	return nil
}
