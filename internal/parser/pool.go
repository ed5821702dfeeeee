package parser

import "sync"

var pool = sync.Pool{
	New: func() any {
		return &Parser{ts: newRustParser(), lang: Rust}
	},
}

// Get returns a Rust parser from a process wide pool. Scans parse many
// files per goroutine; pooling keeps them from building a parser per file.
// Return the parser with Put.
func Get() *Parser {
	return pool.Get().(*Parser)
}

// Put resets p and returns it to the pool.
func Put(p *Parser) {
	if p == nil || p.ts == nil {
		return
	}
	p.ts.Reset()
	pool.Put(p)
}
