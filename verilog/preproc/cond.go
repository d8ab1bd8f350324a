// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preproc

import (
	"fmt"

	"github.com/EngFlow/verilogtools/verilog"
)

type condKind int

const (
	condIf condKind = iota
	condElsif
	condElse
)

// condFrame is one entry of the conditional-compilation stack. Text is
// emitted only while every frame on the stack has skip()==false.
type condFrame struct {
	kind       condKind
	taken      bool // this branch of the chain is active
	anyTaken   bool // some branch of the chain was already taken
	parentSkip bool // an enclosing conditional is already skipping
	loc        verilog.Location
	directive  string // opening directive, for UnterminatedIfdef reporting
}

func (f condFrame) skip() bool { return f.parentSkip || !f.taken }

// skipping reports whether the conditional stack currently disables
// emission.
func (p *Preproc) skipping() bool {
	if len(p.cond) == 0 {
		return false
	}
	return p.cond[len(p.cond)-1].skip()
}

func (p *Preproc) pushCond(directive string, defined bool, loc verilog.Location) {
	taken := defined
	if directive == "ifndef" {
		taken = !defined
	}
	p.cond = append(p.cond, condFrame{
		kind:       condIf,
		taken:      taken,
		anyTaken:   taken,
		parentSkip: p.skipping(),
		loc:        loc,
		directive:  directive,
	})
}

func (p *Preproc) elsifCond(defined bool, loc verilog.Location) error {
	if len(p.cond) == 0 || p.cond[len(p.cond)-1].kind == condElse {
		p.diags.Errorf(verilog.DiagDanglingElse, loc, "`elsif without an open `ifdef chain")
		return fmt.Errorf("%s: %w", loc, ErrDanglingElse)
	}
	frame := &p.cond[len(p.cond)-1]
	frame.kind = condElsif
	frame.taken = !frame.anyTaken && defined
	frame.anyTaken = frame.anyTaken || frame.taken
	return nil
}

func (p *Preproc) elseCond(loc verilog.Location) error {
	if len(p.cond) == 0 || p.cond[len(p.cond)-1].kind == condElse {
		p.diags.Errorf(verilog.DiagDanglingElse, loc, "`else without an open `ifdef chain")
		return fmt.Errorf("%s: %w", loc, ErrDanglingElse)
	}
	frame := &p.cond[len(p.cond)-1]
	frame.kind = condElse
	frame.taken = !frame.anyTaken
	frame.anyTaken = true
	return nil
}

func (p *Preproc) endifCond(loc verilog.Location) error {
	if len(p.cond) == 0 {
		p.diags.Errorf(verilog.DiagDanglingEndif, loc, "`endif without matching `ifdef")
		return fmt.Errorf("%s: %w", loc, ErrDanglingEndif)
	}
	p.cond = p.cond[:len(p.cond)-1]
	return nil
}

// checkBalanced verifies the conditional stack is empty at end of input,
// naming the unterminated opening directive otherwise.
func (p *Preproc) checkBalanced() error {
	if len(p.cond) == 0 {
		return nil
	}
	open := p.cond[len(p.cond)-1]
	p.diags.Errorf(verilog.DiagUnterminatedIfdef, open.loc, "`%s never closed before end of input", open.directive)
	p.cond = nil
	return fmt.Errorf("%s: `%s: %w", open.loc, open.directive, ErrUnterminatedIfdef)
}
