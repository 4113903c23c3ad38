package utils

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Packet is one message of a collective exchange. Header carries integer
// routing data chosen by the caller, Data the payload.
type Packet struct {
	From   int
	Order  int // position in the sender's posting sequence
	Tag    string
	Header []int
	Data   []float64
}

// Barrier blocks until NP goroutines have called Wait, and can be reused
type Barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	np    int
	count int
	gen   uint64
}

func NewBarrier(np int) *Barrier {
	b := &Barrier{np: np}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.count++
	if b.count == b.np {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}

// World is a group of NP ranks, each one a goroutine, that exchange data
// through a shared mailbox. Every collective operation must be entered by
// all ranks in the same order; a rank that skips or reorders one deadlocks
// the group. Setting CheckTags makes each exchange verify that all packets
// it receives were posted under the same collective, which catches most
// ordering mistakes in testing.
type World struct {
	NP        int
	CheckTags bool
	mb        *MailBox[*Packet]
	barrier   *Barrier
	comms     []*Comm
}

func NewWorld(np int) *World {
	if np < 1 {
		panic(fmt.Sprintf("a world needs at least one rank, have %d", np))
	}
	w := &World{
		NP:      np,
		mb:      NewMailBox[*Packet](np),
		barrier: NewBarrier(np),
		comms:   make([]*Comm, np),
	}
	for r := 0; r < np; r++ {
		w.comms[r] = &Comm{world: w, rank: r}
	}
	return w
}

// Comm returns the handle of one rank
func (w *World) Comm(rank int) *Comm {
	return w.comms[rank]
}

// Run starts one goroutine per rank and waits for all of them, returning the
// first error. A rank that returns early while others are inside a
// collective leaves them blocked, so fn must reach the same collectives on
// every rank even when it intends to fail.
func (w *World) Run(fn func(c *Comm) error) error {
	var g errgroup.Group
	for r := 0; r < w.NP; r++ {
		c := w.comms[r]
		g.Go(func() error {
			return fn(c)
		})
	}
	return g.Wait()
}

// Comm is the view of a World from one rank
type Comm struct {
	world  *World
	rank   int
	posted int
}

// SerialComm is a single rank world, for use without any parallelism
func SerialComm() *Comm {
	return NewWorld(1).Comm(0)
}

func (c *Comm) Rank() int { return c.rank }

func (c *Comm) NP() int { return c.world.NP }

func (c *Comm) IOProcessor() bool { return c.rank == 0 }

// Post queues a packet for target, delivered by the next Exchange
func (c *Comm) Post(target int, p *Packet) {
	if target < 0 || target >= c.world.NP {
		panic(fmt.Sprintf("rank %d posting to rank %d outside of [0,%d)", c.rank, target, c.world.NP))
	}
	p.From = c.rank
	p.Order = c.posted
	c.posted++
	c.world.mb.PostMessage(c.rank, target, p)
}

// PostAll queues one packet for every rank including this one. All receivers
// share the packet, so none may modify it.
func (c *Comm) PostAll(p *Packet) {
	p.From = c.rank
	p.Order = c.posted
	c.posted++
	c.world.mb.PostMessage(c.rank, c.rank, p)
	c.world.mb.PostMessageToAll(c.rank, p)
}

// Exchange is a collective: it delivers everything posted since the last
// exchange and returns the packets addressed to this rank ordered by sender
// and posting order.
func (c *Comm) Exchange(tag string) (received []*Packet) {
	var (
		mb = c.world.mb
	)
	mb.DeliverMyMessages(c.rank)
	c.world.barrier.Wait()
	mb.ReceiveMyMessages(c.rank)
	received = append(received, mb.ReceiveMsgQs[c.rank].Cells()...)
	mb.ClearMyMessages(c.rank)
	// Senders may not reuse their outboxes until every receiver has drained
	c.world.barrier.Wait()
	c.posted = 0
	sort.Slice(received, func(i, j int) bool {
		if received[i].From != received[j].From {
			return received[i].From < received[j].From
		}
		return received[i].Order < received[j].Order
	})
	if c.world.CheckTags {
		for _, p := range received {
			if p.Tag != tag {
				panic(fmt.Sprintf("collective call skew: rank %d in %q received a packet from rank %d posted in %q",
					c.rank, tag, p.From, p.Tag))
			}
		}
	}
	return
}

// Barrier is a collective that only synchronizes
func (c *Comm) Barrier() {
	c.world.barrier.Wait()
}

// AllReduceSum is a collective summing vals elementwise across all ranks
func (c *Comm) AllReduceSum(tag string, vals []float64) (sum []float64) {
	c.PostAll(&Packet{Tag: tag, Data: append([]float64(nil), vals...)})
	sum = make([]float64, len(vals))
	for _, p := range c.Exchange(tag) {
		for i, v := range p.Data {
			sum[i] += v
		}
	}
	return
}
