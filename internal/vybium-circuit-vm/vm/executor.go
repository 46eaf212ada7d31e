package vm

import (
	"context"
	"fmt"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/utils"
)

// InputError reports caller-supplied inputs that do not match the program's declarations
type InputError struct {
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %d: %s", e.Index, e.Reason)
}

// State is one execution of a program against its own register store
type State struct {
	program   *Program
	env       Environment
	registers *Registers
	pc        int
}

// NewState defines and assigns the inputs, then defines every destination register.
// A destination defined twice, or colliding with an input, halts before any instruction runs.
func NewState(env Environment, program *Program, inputs []data.Value) (*State, error) {
	if len(inputs) != len(program.Inputs) {
		return nil, &InputError{Index: len(inputs), Reason: fmt.Sprintf("program takes %d inputs, got %d", len(program.Inputs), len(inputs))}
	}
	rs := NewRegisters()
	for i, decl := range program.Inputs {
		if !decl.Type.Matches(inputs[i]) {
			return nil, &InputError{Index: i, Reason: fmt.Sprintf("%s is not a %s", inputs[i], decl.Type)}
		}
		if err := rs.Define(decl.Register); err != nil {
			return nil, err
		}
		if err := rs.Assign(decl.Register, inputs[i]); err != nil {
			return nil, err
		}
	}
	for _, instr := range program.Instructions {
		if err := rs.Define(instr.Destination()); err != nil {
			if h, ok := AsHalt(err); ok && h.Opcode == "" {
				h.Opcode = instr.Opcode().String()
			}
			return nil, err
		}
	}
	return &State{program: program, env: env, registers: rs}, nil
}

// Halted reports whether every instruction has run
func (s *State) Halted() bool {
	return s.pc >= len(s.program.Instructions)
}

// Step evaluates the next instruction
func (s *State) Step() error {
	if s.Halted() {
		return fmt.Errorf("program already finished")
	}
	instr := s.program.Instructions[s.pc]
	if err := instr.Evaluate(s.env, s.registers); err != nil {
		return fmt.Errorf("instruction %d (%s): %w", s.pc, instr, err)
	}
	s.pc++
	return nil
}

// Outputs loads the declared outputs and checks their types
func (s *State) Outputs() ([]data.Value, error) {
	outs := make([]data.Value, len(s.program.Outputs))
	for i, decl := range s.program.Outputs {
		v, err := s.registers.Load(decl.Register)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if !decl.Type.Matches(v) {
			return nil, Halt("", "output %s holds %s, declared %s", decl.Register, v, decl.Type)
		}
		outs[i] = v
	}
	return outs, nil
}

// Registers exposes the register store, for inspection after a run
func (s *State) Registers() *Registers {
	return s.registers
}

// Executor runs programs, each run on a fresh register store
type Executor struct {
	env    Environment
	config *utils.Config
}

// NewExecutor creates an executor using env for cryptographic primitives
func NewExecutor(env Environment, config *utils.Config) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Executor{env: env, config: config.Clone()}, nil
}

// Run executes program on inputs and returns its outputs.
// Evaluation is strictly sequential; the first halt aborts the run.
func (e *Executor) Run(ctx context.Context, program *Program, inputs []data.Value) ([]data.Value, error) {
	if n := len(program.Instructions); n > e.config.MaxInstructions {
		return nil, fmt.Errorf("program has %d instructions, limit is %d", n, e.config.MaxInstructions)
	}
	state, err := NewState(e.env, program, inputs)
	if err != nil {
		return nil, err
	}
	for !state.Halted() {
		instr := program.Instructions[state.pc]
		if err := state.Step(); err != nil {
			logctx.Error(ctx, "execution halted", zap.Int("index", state.pc), zap.Error(err))
			return nil, err
		}
		logctx.Debug(ctx, "evaluated", zap.Stringer("instruction", instr))
	}
	outs, err := state.Outputs()
	if err != nil {
		return nil, err
	}
	logctx.Info(ctx, "run complete", zap.Int("instructions", len(program.Instructions)), zap.Int("outputs", len(outs)))
	return outs, nil
}

// RunBatch executes program once per input set, in parallel up to Config.Parallelism.
// Runs share nothing; results are returned in input order.
func (e *Executor) RunBatch(ctx context.Context, program *Program, inputs [][]data.Value) ([][]data.Value, error) {
	results := make([][]data.Value, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.config.Parallelism)
	for i := range inputs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outs, err := e.Run(ctx, program, inputs[i])
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = outs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logctx.Infof(ctx, "batch of %d runs complete", len(inputs))
	return results, nil
}
