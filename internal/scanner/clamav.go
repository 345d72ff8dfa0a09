package scanner

import (
	"bytes"
	"context"
	"fmt"
	"log"

	clamd "github.com/dutchcoders/go-clamd"
)

// ClamAVScanner scans batches through a clamd daemon over its INSTREAM
// protocol, so file contents never touch the local disk.
type ClamAVScanner struct {
	client *clamd.Clamd
}

// NewClamAVScanner connects to clamd at the given address, e.g.
// "tcp://localhost:3310".
func NewClamAVScanner(address string) (*ClamAVScanner, error) {
	c := clamd.NewClamd(address)
	if err := c.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach clamd at %s: %w", address, err)
	}
	log.Printf("[SCAN] connected to clamd at %s", address)
	return &ClamAVScanner{client: c}, nil
}

// ScanBatch scans each file sequentially and returns one verdict per file in
// input order. Any transport or daemon error aborts the whole call.
func (s *ClamAVScanner) ScanBatch(ctx context.Context, batch []File) ([]Verdict, error) {
	verdicts := make([]Verdict, 0, len(batch))

	for _, f := range batch {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		verdict, err := s.scanOne(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("scan failed for %s: %w", f.Name, err)
		}
		verdicts = append(verdicts, verdict)
	}

	return verdicts, nil
}

func (s *ClamAVScanner) scanOne(ctx context.Context, f File) (Verdict, error) {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(bytes.NewReader(f.Content), abort)
	if err != nil {
		return Verdict{}, err
	}

	return collectVerdict(ctx, results)
}

// collectVerdict folds the daemon's result stream into one verdict. Early
// returns leave a drainer behind: the client's sender goroutine blocks on
// the unread channel otherwise.
func collectVerdict(ctx context.Context, results <-chan *clamd.ScanResult) (Verdict, error) {
	verdict := Verdict{Clean: true}
	for {
		select {
		case <-ctx.Done():
			go drainResults(results)
			return Verdict{}, ctx.Err()
		case res, ok := <-results:
			if !ok {
				return verdict, nil
			}
			switch res.Status {
			case clamd.RES_FOUND:
				verdict.Clean = false
				verdict.Threats = append(verdict.Threats, res.Description)
			case clamd.RES_ERROR, clamd.RES_PARSE_ERROR:
				go drainResults(results)
				return Verdict{}, fmt.Errorf("clamd error: %s", res.Raw)
			}
		}
	}
}

func drainResults(results <-chan *clamd.ScanResult) {
	for range results {
	}
}
