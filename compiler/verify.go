package compiler

import (
	"github.com/llir/llvm/ir"
	"github.com/pontaoski/gigly/errors"
)

// verify makes sure every block of every function ends in a terminator.
// Blocks nothing branches to are closed with `unreachable`; a block that
// can be reached and falls off the end means a path without a return,
// unless the body already failed to lower.
func (c *Compiler) verify() {
	for _, fn := range c.module.Funcs {
		if len(fn.Blocks) == 0 {
			continue
		}

		reachable := reachableBlocks(fn)
		reported := false
		for _, b := range fn.Blocks {
			if b.Term != nil {
				continue
			}
			if reachable[b] && !reported && !c.failed[fn] {
				c.errors.Add(errors.MissingReturn{Function: fn.Name(), Location: c.spans[fn]})
				reported = true
			}
			b.NewUnreachable()
		}
	}
}

func reachableBlocks(fn *ir.Func) map[*ir.Block]bool {
	seen := map[*ir.Block]bool{}
	work := []*ir.Block{fn.Blocks[0]}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		if b.Term != nil {
			work = append(work, b.Term.Succs()...)
		}
	}
	return seen
}
