package sse

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// doneSentinel terminates an SSE payload sequence.
const doneSentinel = "[DONE]"

// Reader yields the payload of each SSE data line from a byte stream.
//
// Lines are decoded as UTF-8 (multi-byte sequences split across reads are
// reassembled by the buffered scanner), CRLF is normalized to LF, the
// "data:" prefix and one optional leading space are stripped, empty
// payloads are skipped, and any non-data line (event names, comments,
// blank separators) is ignored. A payload equal to [DONE] ends the
// sequence. The underlying reader is closed on every exit path.
type Reader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	// finished is owned by the goroutine calling Next; Close itself may
	// run concurrently (a stream handle aborting an abandoned read).
	finished  bool
	closeOnce sync.Once
}

// NewReader wraps body in an SSE payload reader.
func NewReader(body io.ReadCloser) *Reader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{body: body, scanner: scanner}
}

// Next returns the next payload string. It returns io.EOF after the
// [DONE] sentinel or the end of the stream, and the underlying read
// error otherwise. The reader is closed before any non-nil error return.
func (r *Reader) Next() (string, error) {
	if r.finished {
		return "", io.EOF
	}
	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		// The SSE spec allows a single space after the colon.
		payload = strings.TrimPrefix(payload, " ")

		if payload == "" {
			continue
		}
		if payload == doneSentinel {
			r.finished = true
			r.Close()
			return "", io.EOF
		}
		return payload, nil
	}

	err := r.scanner.Err()
	r.finished = true
	r.Close()
	if err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying reader. Safe to call more than once and
// from a goroutine other than the one calling Next; a concurrent Close
// surfaces as a read error on the next Next.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() { err = r.body.Close() })
	return err
}

// LineReader yields one line per call from an NDJSON stream, with CRLF
// normalized. Like Reader, it closes the underlying stream on every exit
// path and skips blank lines.
type LineReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	finished  bool
	closeOnce sync.Once
}

// NewLineReader wraps body in an NDJSON line reader.
func NewLineReader(body io.ReadCloser) *LineReader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &LineReader{body: body, scanner: scanner}
}

// Next returns the next non-blank line, io.EOF at end of stream, or the
// underlying read error.
func (r *LineReader) Next() (string, error) {
	if r.finished {
		return "", io.EOF
	}
	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, nil
	}

	err := r.scanner.Err()
	r.finished = true
	r.Close()
	if err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying reader. Safe to call more than once and
// from a goroutine other than the one calling Next.
func (r *LineReader) Close() error {
	var err error
	r.closeOnce.Do(func() { err = r.body.Close() })
	return err
}
