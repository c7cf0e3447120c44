/*
Package dgclient is a pooled TCP client for the external free-energy
predictor: given a strand and a temperature, the predictor returns a
predicted secondary-structure free energy (DeltaG) as a little-endian
32-bit float. The wire protocol has no length prefix and no terminator: the
request is "<strand-letters>,<temperature>" and the response is always
exactly 4 bytes.
*/
package dgclient

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/lunny/log"

	"github.com/dnaspool/infodna/base"
)

// ConnectTimeout bounds how long a single channel's initial TCP connect may
// take. It is the only timeout anywhere in the pipeline - once a channel is
// up, round trips block for as long as the predictor takes to answer.
const ConnectTimeout = 3 * time.Second

// AcceptanceThreshold is the constant the sigmoid-mapped error is compared
// against when deciding whether a predicted DeltaG is good enough for a
// strand to be used in single-stranded synthesis.
const AcceptanceThreshold = 0.5

// Client owns a fixed pool of persistent TCP connections to
// (address, startPort+i) for i in [0, n). Each connection is individually
// mutex-guarded; DG picks whichever channel is free starting from a
// caller-chosen index, so that N concurrent callers rarely contend on the
// same channel.
type Client struct {
	channels []*channel
}

type channel struct {
	mu   sync.Mutex
	conn net.Conn
}

// New dials n persistent connections to address:startPort .. address:startPort+n-1,
// each with a 3-second connect timeout. If any single connection fails, the
// ones already opened are closed and New returns an error - partial pools
// are not useful since DG assumes every index in [0,n) is live.
func New(address string, startPort, n int) (*Client, error) {
	channels := make([]*channel, 0, n)
	for i := 0; i < n; i++ {
		port := startPort + i
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", address, port), ConnectTimeout)
		if err != nil {
			for _, ch := range channels {
				ch.conn.Close()
			}
			return nil, fmt.Errorf("dgclient: connect to %s:%d: %w", address, port, err)
		}
		channels = append(channels, &channel{conn: conn})
	}
	log.Infof("dgclient: connected %d channels starting at port %d", n, startPort)
	return &Client{channels: channels}, nil
}

// Close closes every underlying connection. It is meant to run once, at
// process exit.
func (c *Client) Close() {
	for _, ch := range c.channels {
		ch.conn.Close()
	}
}

// Len returns the number of channels in the pool.
func (c *Client) Len() int {
	return len(c.channels)
}

// DG queries the predictor for seq at the given temperature, starting the
// channel search at fromID mod n. It tries to non-blockingly lock each
// channel in turn, wrapping around, until one is free; the caller holds
// that channel for the full write-then-read round trip. Any I/O error on
// the round trip yields 0.0 rather than propagating - this is the upstream
// protocol's compatibility behaviour, not a silent bug.
func (c *Client) DG(seq base.Strand, temperature float32, fromID int) float32 {
	n := len(c.channels)
	id := ((fromID % n) + n) % n
	for {
		ch := c.channels[id]
		if ch.mu.TryLock() {
			v := ch.query(seq, temperature)
			ch.mu.Unlock()
			return v
		}
		id = (id + 1) % n
	}
}

func (ch *channel) query(seq base.Strand, temperature float32) float32 {
	request := seq.String() + "," + strconv.FormatFloat(float64(temperature), 'f', -1, 32)
	if _, err := io.WriteString(ch.conn, request); err != nil {
		return 0.0
	}
	var resp [4]byte
	if _, err := io.ReadFull(ch.conn, resp[:]); err != nil {
		return 0.0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(resp[:]))
}

// ErrorFromDeltaG maps a predicted DeltaG to an acceptance error via the
// sigmoid err = 1 / (1 + exp(dg + 4)). If the result is not a normal finite
// number, it returns 0 so that an unexpected overflow never blocks an
// otherwise-valid strand.
func ErrorFromDeltaG(dg float32) float64 {
	err := 1.0 / (1.0 + math.Exp(float64(dg)+4.0))
	if math.IsNaN(err) || math.IsInf(err, 0) || err < 0x1p-1022 {
		return 0
	}
	return err
}
