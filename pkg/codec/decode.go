package codec

import "io"

// Run drives d to completion by reading exactly as many bytes as it
// requests from r at each step, in a synchronous loop. It is the
// primitive the blocking client dispatcher builds on; the pipelined
// dispatcher instead feeds a Decoder from its own buffered read loop
// so it can interleave multiple in-flight replies.
func Run(r io.Reader, d Decoder) (any, error) {
	for {
		n := d.Needed()
		if n == 0 {
			return d.Value(), nil
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		if err := d.Feed(buf); err != nil {
			return nil, err
		}
	}
}
