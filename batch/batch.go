// Package batch compiles many independent terms concurrently.
//
// Each worker owns a wam.Compiler, and all of them intern names into the same
// symbol.Pool, so instructions from different results can be rendered and run
// together.
package batch

import (
	"runtime"
	"sync"

	"github.com/brunokim/l0/logic"
	"github.com/brunokim/l0/symbol"
	"github.com/brunokim/l0/wam"

	log "github.com/sirupsen/logrus"
)

// Options configure a batch compilation.
type Options struct {
	// Number of concurrent compilers. If zero, GOMAXPROCS is used.
	Workers int
	// Compile terms as programs instead of queries.
	Program bool
}

func (opts Options) workers(n int) int {
	w := opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	return w
}

// Result of compiling the term at Index.
type Result struct {
	Index int
	Term  logic.Term
	Code  []wam.Instruction
	Vars  []wam.VarReg
	Err   error
}

// Stream compiles terms concurrently, sending results as they are ready, in
// no particular order. The channel is closed after all terms are compiled or
// after cancel is called.
func Stream(pool *symbol.Pool, terms []logic.Term, opts Options) (<-chan Result, func()) {
	jobs := make(chan int)
	stream := make(chan Result)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(done) }) }

	go func() {
		defer close(jobs)
		for i := range terms {
			select {
			case jobs <- i:
			case <-done:
				return
			}
		}
	}()

	numWorkers := opts.workers(len(terms))
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(w int) {
			defer wg.Done()
			c := wam.NewCompilerWithPool(pool)
			for i := range jobs {
				res := compile(c, i, terms[i], opts.Program)
				if res.Err != nil {
					log.WithField("worker", w).Debugf("term #%d: %v", i, res.Err)
				}
				select {
				case stream <- res:
				case <-done:
					return
				}
			}
		}(w)
	}
	go func() {
		wg.Wait()
		close(stream)
	}()
	return stream, cancel
}

func compile(c *wam.Compiler, i int, term logic.Term, program bool) Result {
	var code []wam.Instruction
	var err error
	if program {
		code, err = c.CompileProgram(term)
	} else {
		code, err = c.CompileQuery(term)
	}
	res := Result{Index: i, Term: term, Code: code, Err: err}
	if err == nil {
		res.Vars = c.Vars()
	}
	return res
}

// Compile compiles all terms concurrently, and returns their results in the
// same order as terms.
func Compile(pool *symbol.Pool, terms []logic.Term, opts Options) []Result {
	results := make([]Result, len(terms))
	stream, cancel := Stream(pool, terms, opts)
	defer cancel()
	for res := range stream {
		results[res.Index] = res
	}
	return results
}
