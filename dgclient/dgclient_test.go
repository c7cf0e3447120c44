package dgclient

import (
	"encoding/binary"
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/base"
)

// fakePredictor starts a one-shot TCP listener that always answers with a
// fixed DeltaG value, to exercise the wire protocol without a real
// secondary-structure predictor.
func fakePredictor(t *testing.T, dg float32) (addr string, port int, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				buf := make([]byte, 256)
				n, err := conn.Read(buf)
				if err != nil || n == 0 {
					return
				}
				var resp [4]byte
				binary.LittleEndian.PutUint32(resp[:], math.Float32bits(dg))
				conn.Write(resp[:])
			}()
		}
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", tcpAddr.Port, func() { ln.Close() }
}

func TestDGRoundTrip(t *testing.T) {
	addr, port, stop := fakePredictor(t, -3.5)
	defer stop()

	client, err := New(addr, port, 1)
	require.NoError(t, err)
	defer client.Close()

	seq := base.FromString("ACGTACGT")
	got := client.DG(seq, 25.0, 0)
	require.InDelta(t, -3.5, got, 1e-4)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	_, err := New("127.0.0.1", 1, 1) // port 1 should refuse connections
	require.Error(t, err)
}

func TestErrorFromDeltaGIsFiniteProbability(t *testing.T) {
	v := ErrorFromDeltaG(0)
	require.False(t, math.IsNaN(v))
	require.False(t, math.IsInf(v, 0))
	require.GreaterOrEqual(t, v, 0.0)
}
